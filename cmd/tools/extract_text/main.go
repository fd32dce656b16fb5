package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"resume-rank/internal/extract"
	"resume-rank/internal/imaging"
)

// Runs the extraction pipeline on local files and prints the resulting
// documents as JSON. Useful for checking what the OCR and format parsers
// produce for a problem resume without going through the API.
func main() {
	var languages string
	var dpi int
	var maxChars int
	var withText bool
	flag.StringVar(&languages, "lang", "eng", "Tesseract language codes, plus-separated (e.g. eng+tur)")
	flag.IntVar(&dpi, "dpi", 150, "Render DPI for scanned PDF pages")
	flag.IntVar(&maxChars, "max-chars", 200000, "Cap on extracted text per document")
	flag.BoolVar(&withText, "text", false, "Include full extracted text in the output")
	flag.Parse()

	if flag.NArg() == 0 {
		log.Fatal("usage: extract_text [flags] file...")
	}

	var uploads []extract.Upload
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("read %s: %v", path, err)
		}
		uploads = append(uploads, extract.Upload{Filename: path, Data: data})
	}

	extractor := extract.NewExtractor(
		imaging.NewNormalizer(),
		extract.NewTesseractBackend(languages),
		extract.Options{MaxTextChars: maxChars, PDFRenderDPI: dpi},
	)

	start := time.Now()
	docs := extractor.ExtractBatch(context.Background(), uploads)
	log.Printf("extracted %d document(s) in %v", len(docs), time.Since(start))

	type report struct {
		extract.Document
		Chars int    `json:"chars"`
		Text  string `json:"text,omitempty"`
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, d := range docs {
		r := report{Document: d, Chars: len(d.Text)}
		if withText {
			r.Text = d.Text
		}
		if err := enc.Encode(r); err != nil {
			log.Fatalf("encode output: %v", err)
		}
	}
}
