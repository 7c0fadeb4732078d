package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/otiai10/gosseract/v2"
)

// TesseractRecognizer implements TextRecognizer on top of a local
// Tesseract install via gosseract. Recognition runs in single-block
// page segmentation, the right mode for itemized bills.
type TesseractRecognizer struct {
	// Languages passed to Tesseract, e.g. "eng" or "eng+hin".
	Languages []string
}

var _ TextRecognizer = (*TesseractRecognizer)(nil)

// FullText returns the whole page as one reading-order string.
func (t *TesseractRecognizer) FullText(img image.Image) (string, error) {
	client, err := t.newClient(img)
	if err != nil {
		return "", err
	}
	defer client.Close()

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("tesseract text: %w", err)
	}
	return text, nil
}

// Words returns word-level tokens with boxes and confidences.
func (t *TesseractRecognizer) Words(img image.Image) ([]RawWord, error) {
	client, err := t.newClient(img)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("tesseract boxes: %w", err)
	}

	words := make([]RawWord, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, RawWord{
			Text:       b.Word,
			Left:       b.Box.Min.X,
			Top:        b.Box.Min.Y,
			Width:      b.Box.Dx(),
			Height:     b.Box.Dy(),
			Confidence: b.Confidence,
		})
	}
	return words, nil
}

func (t *TesseractRecognizer) newClient(img image.Image) (*gosseract.Client, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	client := gosseract.NewClient()
	if len(t.Languages) > 0 {
		if err := client.SetLanguage(t.Languages...); err != nil {
			client.Close()
			return nil, fmt.Errorf("set language: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("set psm: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		client.Close()
		return nil, fmt.Errorf("set image: %w", err)
	}
	return client, nil
}
