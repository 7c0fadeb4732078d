package pdftable

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gyeh/billaudit/internal/model"
)

var (
	// ErrFileNotFound reports a missing input path. Fatal, not retried.
	ErrFileNotFound = errors.New("pdf file not found")
	// ErrInvalidFormat reports a non-PDF input path. Fatal, not retried.
	ErrInvalidFormat = errors.New("input is not a pdf")
)

// Extractor runs the table-extraction cascade. The zero value is not
// usable; NewExtractor wires the default detectors.
type Extractor struct {
	Lattice  TableDetector
	Stream   TableDetector
	Fallback TableDetector
}

// NewExtractor returns an Extractor with the default detector cascade.
func NewExtractor() *Extractor {
	return &Extractor{
		Lattice:  LatticeDetector{},
		Stream:   StreamDetector{},
		Fallback: FallbackDetector{},
	}
}

// ExtractTables validates the path, opens the PDF, and extracts tables
// from the requested pages. Only the upfront path/extension validation
// can fail; every extraction-level failure degrades to zero tables.
func (e *Extractor) ExtractTables(path, pages, flavor string) ([]model.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFormat, path)
	}

	src, err := OpenPDF(path)
	if err != nil {
		// Unreadable PDF content is an extraction failure, not a
		// contract violation.
		return []model.Table{}, nil
	}
	defer src.Close()

	return e.ExtractFrom(src, pages, flavor), nil
}

// ExtractFrom runs the detector cascade over a page source:
// the requested flavor first, a lattice-to-stream retry when lattice
// finds nothing, then the independent fallback detector. Raw tables are
// cleaned and empty results dropped.
func (e *Extractor) ExtractFrom(src PageSource, pages, flavor string) []model.Table {
	pageIdx := ParsePageSpec(pages, src.NumPages())

	primary := e.Lattice
	if flavor == "stream" {
		primary = e.Stream
	}

	tables := e.detectAll(src, pageIdx, primary)
	if len(tables) == 0 && flavor != "stream" {
		tables = e.detectAll(src, pageIdx, e.Stream)
	}
	if len(tables) == 0 {
		tables = e.detectAll(src, pageIdx, e.Fallback)
	}

	out := make([]model.Table, 0, len(tables))
	for _, t := range tables {
		cleaned := Clean(t)
		if len(cleaned.Rows) > 0 {
			out = append(out, cleaned)
		}
	}
	return out
}

// detectAll runs one detector across the page set, swallowing page-level
// failures as zero tables for that page.
func (e *Extractor) detectAll(src PageSource, pageIdx []int, det TableDetector) []model.Table {
	var tables []model.Table
	for _, idx := range pageIdx {
		page, err := src.Page(idx)
		if err != nil {
			continue
		}
		tables = append(tables, det.Detect(page)...)
	}
	return tables
}
