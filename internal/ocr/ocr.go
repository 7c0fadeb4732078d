package ocr

import (
	"fmt"
	"image"
	"image/draw"
	"strings"

	"github.com/gyeh/billaudit/internal/model"
)

// RawWord is a recognizer-native token: text, a (left, top, width,
// height) box, and the engine's confidence. Negative confidence is the
// engine's "not real text" sentinel.
type RawWord struct {
	Text       string
	Left       int
	Top        int
	Width      int
	Height     int
	Confidence float64
}

// TextRecognizer is the capability interface over an OCR engine.
// FullText returns the page in natural reading order; Words returns
// word-level tokens with boxes. Implementations must treat the image as
// read-only.
type TextRecognizer interface {
	FullText(img image.Image) (string, error)
	Words(img image.Image) ([]RawWord, error)
}

// Extractor turns a decoded bitmap into a PageOCRResult using the
// configured recognizer.
type Extractor struct {
	Recognizer TextRecognizer
}

// NewExtractor returns an Extractor backed by the given recognizer.
func NewExtractor(r TextRecognizer) *Extractor {
	return &Extractor{Recognizer: r}
}

// Extract runs two recognizer passes over the image: one for the
// full-page text, one for word tokens. A nil image is a caller contract
// violation; recognizer errors propagate fatally with no retry.
//
// Token filtering: empty-trimmed tokens and negative-confidence
// sentinels are dropped; zero confidence survives.
func (e *Extractor) Extract(img image.Image) (*model.PageOCRResult, error) {
	if img == nil {
		return nil, fmt.Errorf("ocr: input image is nil")
	}

	img = canonicalize(img)

	text, err := e.Recognizer.FullText(img)
	if err != nil {
		return nil, fmt.Errorf("ocr full text: %w", err)
	}

	raw, err := e.Recognizer.Words(img)
	if err != nil {
		return nil, fmt.Errorf("ocr words: %w", err)
	}

	words := make([]model.Word, 0, len(raw))
	for _, w := range raw {
		if strings.TrimSpace(w.Text) == "" {
			continue
		}
		if w.Confidence < 0 {
			continue
		}
		words = append(words, model.Word{
			Text:       w.Text,
			X1:         w.Left,
			Y1:         w.Top,
			X2:         w.Left + w.Width,
			Y2:         w.Top + w.Height,
			Confidence: w.Confidence,
		})
	}

	return &model.PageOCRResult{PageText: text, Words: words}, nil
}

// canonicalize converts RGBA and other exotic modes to plain RGB-backed
// NRGBA. Grayscale passes through unchanged.
func canonicalize(img image.Image) image.Image {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return img
	case *image.NRGBA:
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}
