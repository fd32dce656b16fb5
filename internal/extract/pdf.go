package extract

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/ledongthuc/pdf"
)

// Scanned PDFs carry no usable text layer; anything below this yield goes
// through page rendering and OCR instead.
const minTextLayerChars = 200

// extractPDF tries the embedded text layer first and falls back to rendering
// every page at reduced DPI for OCR when the document looks scanned.
func (e *Extractor) extractPDF(ctx context.Context, data []byte) (string, int, error) {
	text, pages, layerErr := pdfTextLayer(data)
	if layerErr == nil && len(strings.TrimSpace(text)) >= minTextLayerChars {
		return text, pages, nil
	}
	if layerErr != nil {
		log.Printf("[Extract] PDF text layer unavailable, falling back to OCR: %v", layerErr)
	}
	return e.ocrPDFPages(ctx, data)
}

func pdfTextLayer(data []byte) (string, int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", 0, fmt.Errorf("read pdf: %w", err)
	}

	var sb strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), numPages, nil
}

// ocrPDFPages renders each page to an image, normalizes it, and OCRs it.
// A page that cannot be rendered or recognized contributes empty text rather
// than failing the document.
func (e *Extractor) ocrPDFPages(ctx context.Context, data []byte) (string, int, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrCorruptInput, err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pageTexts := make([]string, 0, numPages)

	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", numPages, ErrExtractionTimeout
		}

		img, err := doc.ImageDPI(i, float64(e.opts.PDFRenderDPI))
		if err != nil {
			log.Printf("[Extract] could not render PDF page %d: %v", i+1, err)
			pageTexts = append(pageTexts, "")
			continue
		}

		processed := e.normalizer.Preprocess(img)
		text, err := e.ocr.Recognize(ctx, processed)
		if err != nil {
			log.Printf("[Extract] OCR failed on PDF page %d: %v", i+1, err)
			pageTexts = append(pageTexts, "")
			continue
		}
		pageTexts = append(pageTexts, strings.TrimSpace(text))
	}

	return strings.Join(pageTexts, "\n\n"), numPages, nil
}
