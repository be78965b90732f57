package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// ImagePayload is an in-memory encoded image tagged with its MIME type.
type ImagePayload struct {
	Data        []byte
	ContentType string
}

// Decoder turns an encoded image payload into a best-effort text
// transcription. Implementations perform no semantic validation of the
// content; a failed decode returns *DecodeError.
type Decoder interface {
	Decode(ctx context.Context, payload ImagePayload) (string, error)
}

// TesseractDecoder runs OCR through the Tesseract engine. Dashboard counters
// are visually scattered widgets, not prose, so the engine is configured for
// sparse-text segmentation rather than line or paragraph layout analysis.
type TesseractDecoder struct {
	Languages []string
}

func NewTesseractDecoder(languages ...string) *TesseractDecoder {
	if len(languages) == 0 {
		languages = []string{"eng"}
	}
	return &TesseractDecoder{Languages: languages}
}

func (d *TesseractDecoder) Decode(ctx context.Context, payload ImagePayload) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	if len(payload.Data) == 0 {
		return "", &DecodeError{Err: fmt.Errorf("empty payload (%s)", payload.ContentType)}
	}
	if _, _, err := image.Decode(bytes.NewReader(payload.Data)); err != nil {
		return "", &DecodeError{Err: fmt.Errorf("not a valid raster image: %w", err)}
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetImageFromBytes(payload.Data); err != nil {
		return "", &DecodeError{Err: fmt.Errorf("set image: %w", err)}
	}
	if err := client.SetLanguage(d.Languages...); err != nil {
		return "", &DecodeError{Err: fmt.Errorf("set languages: %w", err)}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SPARSE_TEXT); err != nil {
		return "", &DecodeError{Err: fmt.Errorf("set segmentation mode: %w", err)}
	}

	text, err := client.Text()
	if err != nil {
		return "", &DecodeError{Err: fmt.Errorf("recognize text: %w", err)}
	}
	return strings.TrimSpace(text), nil
}
