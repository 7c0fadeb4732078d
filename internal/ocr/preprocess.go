package ocr

import (
	"image"

	"github.com/disintegration/imaging"
)

// Preprocess improves a low-quality scan before recognition: grayscale,
// contrast boost, then a sharpening pass. Callers apply it optionally;
// it changes input quality, not OCR semantics.
func Preprocess(img image.Image) image.Image {
	out := imaging.Grayscale(img)
	out = imaging.AdjustContrast(out, 50)
	out = imaging.Sharpen(out, 1.0)
	return out
}
