package pdftable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/billaudit/internal/model"
)

// fakeSource serves a fixed set of pages.
type fakeSource struct {
	pages []PageObjects
}

func (f *fakeSource) NumPages() int { return len(f.pages) }

func (f *fakeSource) Page(idx int) (PageObjects, error) {
	return f.pages[idx], nil
}

// countingDetector returns canned tables and counts invocations.
type countingDetector struct {
	name   string
	tables []model.Table
	calls  int
}

func (d *countingDetector) Name() string { return d.name }

func (d *countingDetector) Detect(page PageObjects) []model.Table {
	d.calls++
	return d.tables
}

func oneTable() []model.Table {
	return []model.Table{{Rows: [][]string{{"Consultation", "500"}, {"CBC", "350"}}}}
}

func TestExtractFrom_LatticeStreamFallbackOrder(t *testing.T) {
	lattice := &countingDetector{name: "lattice"}
	stream := &countingDetector{name: "stream", tables: oneTable()}
	fallback := &countingDetector{name: "geometry-fallback", tables: oneTable()}
	e := &Extractor{Lattice: lattice, Stream: stream, Fallback: fallback}

	src := &fakeSource{pages: []PageObjects{{}}}
	got := e.ExtractFrom(src, "all", "lattice")

	if len(got) != 1 {
		t.Fatalf("expected 1 table from stream retry, got %d", len(got))
	}
	if lattice.calls != 1 || stream.calls != 1 {
		t.Errorf("lattice/stream calls = %d/%d, want 1/1", lattice.calls, stream.calls)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback must not run once stream found a table, ran %d times", fallback.calls)
	}
}

func TestExtractFrom_FallbackWhenBothFlavorsEmpty(t *testing.T) {
	lattice := &countingDetector{name: "lattice"}
	stream := &countingDetector{name: "stream"}
	fallback := &countingDetector{name: "geometry-fallback", tables: oneTable()}
	e := &Extractor{Lattice: lattice, Stream: stream, Fallback: fallback}

	src := &fakeSource{pages: []PageObjects{{}}}
	got := e.ExtractFrom(src, "all", "lattice")

	if len(got) != 1 {
		t.Fatalf("expected fallback table, got %d", len(got))
	}
	if fallback.calls != 1 {
		t.Errorf("fallback calls = %d, want 1", fallback.calls)
	}
}

func TestExtractFrom_StreamFlavorSkipsLattice(t *testing.T) {
	lattice := &countingDetector{name: "lattice", tables: oneTable()}
	stream := &countingDetector{name: "stream"}
	fallback := &countingDetector{name: "geometry-fallback"}
	e := &Extractor{Lattice: lattice, Stream: stream, Fallback: fallback}

	src := &fakeSource{pages: []PageObjects{{}}}
	e.ExtractFrom(src, "all", "stream")

	if lattice.calls != 0 {
		t.Errorf("lattice must not run for stream flavor, ran %d times", lattice.calls)
	}
	// Stream found nothing; fallback runs.
	if fallback.calls != 1 {
		t.Errorf("fallback calls = %d, want 1", fallback.calls)
	}
}

func TestExtractTables_PathValidation(t *testing.T) {
	e := NewExtractor()

	if _, err := e.ExtractTables("/nonexistent/bill.pdf", "all", "lattice"); err == nil {
		t.Error("expected error for missing file")
	}

	dir := t.TempDir()
	txt := filepath.Join(dir, "bill.txt")
	os.WriteFile(txt, []byte("not a pdf"), 0644)
	if _, err := e.ExtractTables(txt, "all", "lattice"); err == nil {
		t.Error("expected error for non-pdf extension")
	}

	// A .pdf path with unreadable content degrades to zero tables.
	bogus := filepath.Join(dir, "bill.pdf")
	os.WriteFile(bogus, []byte("garbage"), 0644)
	tables, err := e.ExtractTables(bogus, "all", "lattice")
	if err != nil {
		t.Fatalf("unreadable pdf must not error: %v", err)
	}
	if len(tables) != 0 {
		t.Errorf("expected zero tables, got %d", len(tables))
	}
}
