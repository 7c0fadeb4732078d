package pdftable

import (
	"strings"

	"github.com/gyeh/billaudit/internal/model"
)

// Clean normalizes a raw extracted table: every cell is whitespace-
// trimmed, ragged rows are padded with empty cells to the table width,
// rows that are empty across every column are dropped, columns that are
// empty in every row are dropped, and row numbering becomes contiguous
// from zero (implicit in the returned slice). Every returned row has
// the same width.
func Clean(t model.Table) model.Table {
	width := 0
	for _, row := range t.Rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if width == 0 {
		return model.Table{Rows: [][]string{}}
	}

	// Trim cells, pad ragged rows, and find non-empty rows.
	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		trimmed := make([]string, width)
		empty := true
		for i, cell := range row {
			trimmed[i] = strings.TrimSpace(cell)
			if trimmed[i] != "" {
				empty = false
			}
		}
		if !empty {
			rows = append(rows, trimmed)
		}
	}

	// Find columns that are empty in every surviving row.
	keep := make([]bool, width)
	for _, row := range rows {
		for i, cell := range row {
			if cell != "" {
				keep[i] = true
			}
		}
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for i, cell := range row {
			if keep[i] {
				cells = append(cells, cell)
			}
		}
		out = append(out, cells)
	}
	return model.Table{Rows: out}
}
