package ocr

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// fakeRecognizer returns canned output so extraction logic can be tested
// without a Tesseract install.
type fakeRecognizer struct {
	text  string
	words []RawWord
	err   error
}

func (f *fakeRecognizer) FullText(img image.Image) (string, error) {
	return f.text, f.err
}

func (f *fakeRecognizer) Words(img image.Image) ([]RawWord, error) {
	return f.words, f.err
}

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 10, 10))
	img.Set(5, 5, color.White)
	return img
}

func TestExtract_NilImage(t *testing.T) {
	e := NewExtractor(&fakeRecognizer{})
	if _, err := e.Extract(nil); err == nil {
		t.Fatal("expected error for nil image")
	}
}

func TestExtract_RecognizerErrorPropagates(t *testing.T) {
	e := NewExtractor(&fakeRecognizer{err: errors.New("engine down")})
	if _, err := e.Extract(testImage()); err == nil {
		t.Fatal("expected recognizer error to propagate")
	}
}

func TestExtract_TokenFiltering(t *testing.T) {
	rec := &fakeRecognizer{
		text: "Apollo Hospital\nConsultation 500",
		words: []RawWord{
			{Text: "Apollo", Left: 10, Top: 5, Width: 60, Height: 12, Confidence: 91.5},
			{Text: "   ", Left: 75, Top: 5, Width: 4, Height: 12, Confidence: 80},
			{Text: "ghost", Left: 80, Top: 5, Width: 30, Height: 12, Confidence: -1},
			{Text: "500", Left: 120, Top: 30, Width: 25, Height: 12, Confidence: 0},
		},
	}
	e := NewExtractor(rec)

	res, err := e.Extract(testImage())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// Negative-confidence and whitespace tokens dropped; zero kept.
	if len(res.Words) != 2 {
		t.Fatalf("expected 2 words, got %d: %+v", len(res.Words), res.Words)
	}
	if res.Words[0].Text != "Apollo" || res.Words[1].Text != "500" {
		t.Errorf("unexpected surviving words: %+v", res.Words)
	}
	if res.Words[1].Confidence != 0 {
		t.Errorf("zero confidence must survive, got %v", res.Words[1].Confidence)
	}

	// Page text is unaffected by token filtering.
	if res.PageText != rec.text {
		t.Errorf("page text changed: %q", res.PageText)
	}
}

func TestExtract_BBoxConversion(t *testing.T) {
	rec := &fakeRecognizer{
		words: []RawWord{{Text: "MRI", Left: 100, Top: 40, Width: 30, Height: 14, Confidence: 88}},
	}
	e := NewExtractor(rec)

	res, err := e.Extract(testImage())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	w := res.Words[0]
	if w.X1 != 100 || w.Y1 != 40 || w.X2 != 130 || w.Y2 != 54 {
		t.Errorf("bbox = (%d,%d,%d,%d), want (100,40,130,54)", w.X1, w.Y1, w.X2, w.Y2)
	}
}

func TestCanonicalize_GrayPassthrough(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 4, 4))
	if canonicalize(g) != image.Image(g) {
		t.Error("grayscale should pass through unchanged")
	}
	rgba := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if _, ok := canonicalize(rgba).(*image.NRGBA); !ok {
		t.Error("RGBA should canonicalize to NRGBA")
	}
}

func TestPreprocess_PreservesSize(t *testing.T) {
	img := testImage()
	out := Preprocess(img)
	if out.Bounds().Dx() != img.Bounds().Dx() || out.Bounds().Dy() != img.Bounds().Dy() {
		t.Errorf("preprocess changed dimensions: %v -> %v", img.Bounds(), out.Bounds())
	}
}
