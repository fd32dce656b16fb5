package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"

	"resume-rank/internal/imaging"
)

var allowedExtensions = map[string]bool{
	".pdf": true, ".docx": true, ".doc": true, ".rtf": true, ".odt": true,
	".txt": true, ".png": true, ".jpg": true, ".jpeg": true, ".tiff": true,
	".bmp": true,
}

// Options bounds extraction work.
type Options struct {
	Workers      int // parallel file extractions
	MaxTextChars int // cap on extracted text, recorded in status when applied
	PDFRenderDPI int // reduced DPI for scanned-page rendering
}

// Extractor converts uploaded files into plain-text Documents, running raster
// content through the Normalizer and the OCR backend.
type Extractor struct {
	normalizer *imaging.Normalizer
	ocr        OCRBackend
	opts       Options
}

func NewExtractor(normalizer *imaging.Normalizer, ocr OCRBackend, opts Options) *Extractor {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.MaxTextChars <= 0 {
		opts.MaxTextChars = 200000
	}
	if opts.PDFRenderDPI <= 0 {
		opts.PDFRenderDPI = 150
	}
	return &Extractor{normalizer: normalizer, ocr: ocr, opts: opts}
}

// ExtractBatch processes all uploads in parallel with a bounded worker pool.
// ZIP archives are expanded first, one Document per valid entry. A single
// file's failure never aborts the batch; it is recorded with a reason.
func (e *Extractor) ExtractBatch(ctx context.Context, uploads []Upload) []Document {
	files := make([]Upload, 0, len(uploads))
	var failed []Document

	for _, u := range uploads {
		if strings.ToLower(filepath.Ext(u.Filename)) == ".zip" {
			entries, rejects := expandArchive(u)
			files = append(files, entries...)
			failed = append(failed, rejects...)
			continue
		}
		files = append(files, u)
	}

	results := make([]Document, len(files))
	sem := make(chan struct{}, e.opts.Workers)
	var wg sync.WaitGroup

	for i, f := range files {
		wg.Add(1)
		go func(i int, f Upload) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = e.extractOne(ctx, f)
		}(i, f)
	}
	wg.Wait()

	return append(results, failed...)
}

func (e *Extractor) extractOne(ctx context.Context, f Upload) Document {
	doc := Document{
		ID:         uuid.NewString(),
		SourceFile: f.Filename,
	}

	text, pages, err := e.safeExtractText(ctx, f)
	if err != nil {
		log.Printf("[Extract] %s failed: %v", f.Filename, err)
		doc.Status = StatusFailed
		doc.Reason = shortReason(err)
		doc.Name = FallbackName(f.Filename)
		return doc
	}

	doc.Status = StatusSuccess
	if capped, ok := capText(text, e.opts.MaxTextChars); ok {
		text = capped
		doc.Status = StatusPartial
		doc.Reason = fmt.Sprintf("text capped at %d characters", e.opts.MaxTextChars)
	}

	doc.Text = text
	doc.PageCount = pages
	doc.Name = RecognizeName(text)
	if doc.Name == "" {
		doc.Name = FallbackName(f.Filename)
	}

	log.Printf("[Extract] %s: %d chars, %d page(s)", f.Filename, len(text), pages)
	return doc
}

// safeExtractText shields the batch from format libraries that panic on
// corrupt input (the PDF reader does, on some malformed xref tables). A panic
// fails the one file, nothing else.
func (e *Extractor) safeExtractText(ctx context.Context, f Upload) (text string, pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Extract] parser panic on %s: %v", f.Filename, r)
			text, pages = "", 0
			err = fmt.Errorf("%w: parser panic: %v", ErrCorruptInput, r)
		}
	}()
	return e.extractText(ctx, f)
}

func (e *Extractor) extractText(ctx context.Context, f Upload) (string, int, error) {
	if err := ctx.Err(); err != nil {
		return "", 0, ErrExtractionTimeout
	}

	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !allowedExtensions[ext] {
		return "", 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	switch ext {
	case ".pdf":
		return e.extractPDF(ctx, f.Data)
	case ".docx":
		text, err := extractDocx(f.Data)
		return text, 1, err
	case ".doc", ".rtf", ".odt":
		text, err := extractLegacyDoc(f.Filename, f.Data)
		return text, 1, err
	case ".txt":
		return string(f.Data), 1, nil
	default: // image formats on the allow-list
		text, err := e.extractImage(ctx, f.Data)
		return text, 1, err
	}
}

// extractImage decodes a standalone raster image, normalizes it, and runs OCR.
// An undecodable image is a corrupt input; an OCR miss yields empty text.
func (e *Extractor) extractImage(ctx context.Context, data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptInput, err)
	}
	processed := e.normalizer.Preprocess(img)
	text, err := e.ocr.Recognize(ctx, processed)
	if err != nil {
		log.Printf("[Extract] OCR error on standalone image: %v", err)
		return "", nil
	}
	return strings.TrimSpace(text), nil
}

// expandArchive opens a ZIP upload in memory and returns one Upload per valid
// entry. Directory markers, hidden files, unsupported extensions, and entries
// escaping the extraction root are skipped; traversal attempts come back as
// failed Documents so the caller can surface them.
func expandArchive(u Upload) ([]Upload, []Document) {
	reader, err := zip.NewReader(bytes.NewReader(u.Data), int64(len(u.Data)))
	if err != nil {
		return nil, []Document{{
			ID:         uuid.NewString(),
			Name:       FallbackName(u.Filename),
			SourceFile: u.Filename,
			Status:     StatusFailed,
			Reason:     "invalid or corrupted ZIP file",
		}}
	}

	var entries []Upload
	var rejects []Document

	for _, f := range reader.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if !safeEntryPath(f.Name) {
			log.Printf("[Extract] rejected archive entry %q: %v", f.Name, ErrTraversalRejected)
			rejects = append(rejects, Document{
				ID:         uuid.NewString(),
				Name:       FallbackName(path.Base(f.Name)),
				SourceFile: f.Name,
				Status:     StatusFailed,
				Reason:     ErrTraversalRejected.Error(),
			})
			continue
		}

		base := path.Base(f.Name)
		if strings.HasPrefix(base, ".") || strings.Contains(f.Name, "__MACOSX") {
			continue
		}
		ext := strings.ToLower(path.Ext(base))
		if !allowedExtensions[ext] {
			log.Printf("[Extract] skipping unsupported archive entry: %s", base)
			continue
		}

		rc, err := f.Open()
		if err != nil {
			rejects = append(rejects, Document{
				ID:         uuid.NewString(),
				Name:       FallbackName(base),
				SourceFile: base,
				Status:     StatusFailed,
				Reason:     "could not read archive entry",
			})
			continue
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			rejects = append(rejects, Document{
				ID:         uuid.NewString(),
				Name:       FallbackName(base),
				SourceFile: base,
				Status:     StatusFailed,
				Reason:     "could not read archive entry",
			})
			continue
		}
		entries = append(entries, Upload{Filename: base, Data: data})
	}
	return entries, rejects
}

// safeEntryPath reports whether a ZIP entry name stays inside the extraction
// root once cleaned. ZIP names always use forward slashes.
func safeEntryPath(name string) bool {
	if path.IsAbs(name) || strings.Contains(name, "\\") {
		return false
	}
	clean := path.Clean(name)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

// capText truncates on a rune boundary and reports whether a cap was applied.
func capText(text string, maxChars int) (string, bool) {
	if len(text) <= maxChars {
		return text, false
	}
	cut := maxChars
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut], true
}

// shortReason keeps user-visible failure text specific but free of wrapped
// internal detail.
func shortReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedFormat):
		return err.Error()
	case errors.Is(err, ErrCorruptInput):
		return "file could not be read"
	case errors.Is(err, ErrExtractionTimeout):
		return "extraction timed out"
	default:
		return "extraction failed"
	}
}
