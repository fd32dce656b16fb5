package extract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// OCRBackend turns a preprocessed page image into plain text. It may fail or
// return empty text; callers must tolerate both.
type OCRBackend interface {
	Recognize(ctx context.Context, img image.Image) (string, error)
}

// TesseractBackend runs OCR through a local tesseract installation.
type TesseractBackend struct {
	languages string
}

func NewTesseractBackend(languages string) *TesseractBackend {
	if languages == "" {
		languages = "eng"
	}
	return &TesseractBackend{languages: languages}
}

func (t *TesseractBackend) Recognize(ctx context.Context, img image.Image) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("encode page for OCR: %w", err)
	}

	// gosseract clients are not safe for concurrent use; one per call.
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(t.languages); err != nil {
		return "", fmt.Errorf("set OCR language: %w", err)
	}
	client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK)

	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return "", fmt.Errorf("load page into OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return text, nil
}
