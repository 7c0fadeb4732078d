package pdftable

import (
	"github.com/gyeh/billaudit/internal/model"
)

// FallbackDetector is the independent last-resort detector: it scans the
// page for runs of consecutive multi-cell text lines, splitting each
// line into cells at horizontal gaps. It trades precision for recall and
// only runs when both primary flavors found nothing.
type FallbackDetector struct {
	// GapWidth is the minimum horizontal whitespace, in page units,
	// treated as a cell boundary.
	GapWidth float64
	// MinRows is the minimum run length accepted as a table.
	MinRows int
}

func (FallbackDetector) Name() string { return "geometry-fallback" }

func (d FallbackDetector) Detect(page PageObjects) []model.Table {
	gap := d.GapWidth
	if gap <= 0 {
		gap = 18
	}
	minRows := d.MinRows
	if minRows <= 0 {
		minRows = 3
	}

	rows := wordRows(page.Words, rowTolerance)

	var tables []model.Table
	var run [][]string
	flush := func() {
		if len(run) >= minRows {
			tables = append(tables, model.Table{Rows: run})
		}
		run = nil
	}

	for _, row := range rows {
		cells := splitAtGaps(row, gap)
		if len(cells) >= 2 {
			run = append(run, cells)
			continue
		}
		flush()
	}
	flush()
	return tables
}

// splitAtGaps merges a row of words into cells, starting a new cell
// wherever the horizontal gap to the previous word exceeds gap.
func splitAtGaps(row []PlacedWord, gap float64) []string {
	if len(row) == 0 {
		return nil
	}
	cells := []string{row[0].Text}
	prevRight := row[0].X1
	for _, w := range row[1:] {
		if w.X0-prevRight > gap {
			cells = append(cells, w.Text)
		} else {
			cells[len(cells)-1] += " " + w.Text
		}
		if w.X1 > prevRight {
			prevRight = w.X1
		}
	}
	return cells
}
