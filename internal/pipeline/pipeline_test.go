package pipeline

import (
	"errors"
	"testing"

	"github.com/gyeh/billaudit/internal/model"
)

func TestBillFrom_EmptyExtraction(t *testing.T) {
	bill := billFrom("", nil)
	if bill == nil {
		t.Fatal("empty extraction must still yield a bill")
	}
	if bill.Confidence != model.ConfidenceLow {
		t.Errorf("confidence = %q, want low", bill.Confidence)
	}
	if len(bill.LineItems) != 0 {
		t.Errorf("unexpected line items: %v", bill.LineItems)
	}
}

func TestBillFrom_TablesFillMissingLines(t *testing.T) {
	tables := []model.Table{{Rows: [][]string{
		{"Complete Blood Count", "1", "350.00"},
		{"Consultation General Medicine", "1", "800.00"},
	}}}
	bill := billFrom("Apollo Hospital\nTotal: Rs 1,150.00\n", tables)
	if len(bill.LineItems) != 2 {
		t.Fatalf("got %d line items, want 2 from tables", len(bill.LineItems))
	}
	if bill.LineItems[0].Amount != 350 {
		t.Errorf("amount = %v, want 350", bill.LineItems[0].Amount)
	}
}

func TestPointConfidence(t *testing.T) {
	cases := []struct {
		tier model.Confidence
		want float64
	}{
		{model.ConfidenceHigh, 0.8},
		{model.ConfidenceMedium, 0.5},
		{model.ConfidenceLow, 0.3},
		{model.Confidence(""), 0.3},
	}
	for _, c := range cases {
		if got := pointConfidence(c.tier); got != c.want {
			t.Errorf("pointConfidence(%q) = %v, want %v", c.tier, got, c.want)
		}
	}
}

func TestIsImagePath(t *testing.T) {
	for _, p := range []string{"bill.png", "scan.JPG", "x.jpeg", "y.tiff"} {
		if !isImagePath(p) {
			t.Errorf("%s should be an image path", p)
		}
	}
	for _, p := range []string{"bill.pdf", "notes.txt", "noext"} {
		if isImagePath(p) {
			t.Errorf("%s should not be an image path", p)
		}
	}
}

func TestPipelineError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &PipelineError{Phase: "extract", Err: inner}
	if !errors.Is(err, inner) {
		t.Error("PipelineError must unwrap to its cause")
	}
	if err.Error() != "extract: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
