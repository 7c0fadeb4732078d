package pdftable

import (
	"sort"
	"strings"

	"github.com/gyeh/billaudit/internal/model"
)

// TableDetector finds zero or more tables in one page's geometry.
// Detectors never fail; a page without table structure yields nil.
type TableDetector interface {
	Name() string
	Detect(page PageObjects) []model.Table
}

// LatticeDetector recovers bordered tables from ruling lines: distinct
// horizontal and vertical rule positions form a cell grid, and words are
// assigned to cells by their center point.
type LatticeDetector struct{}

func (LatticeDetector) Name() string { return "lattice" }

func (LatticeDetector) Detect(page PageObjects) []model.Table {
	ys := make([]float64, 0, len(page.HRules))
	for _, r := range page.HRules {
		ys = append(ys, (r.Y0+r.Y1)/2)
	}
	xs := make([]float64, 0, len(page.VRules))
	for _, r := range page.VRules {
		xs = append(xs, (r.X0+r.X1)/2)
	}

	rowBounds := groupPositions(ys, snapTolerance)
	colBounds := groupPositions(xs, snapTolerance)
	if len(rowBounds) < 2 || len(colBounds) < 2 {
		return nil
	}

	nRows := len(rowBounds) - 1
	nCols := len(colBounds) - 1
	cells := make([][][]string, nRows)
	for i := range cells {
		cells[i] = make([][]string, nCols)
	}

	hit := false
	for _, w := range page.Words {
		cx := (w.X0 + w.X1) / 2
		cy := (w.Y0 + w.Y1) / 2
		ri := bucket(rowBounds, cy)
		ci := bucket(colBounds, cx)
		if ri < 0 || ci < 0 {
			continue
		}
		cells[ri][ci] = append(cells[ri][ci], w.Text)
		hit = true
	}
	if !hit {
		return nil
	}

	rows := make([][]string, nRows)
	for i := range cells {
		rows[i] = make([]string, nCols)
		for j := range cells[i] {
			rows[i][j] = strings.Join(cells[i][j], " ")
		}
	}
	return []model.Table{{Rows: rows}}
}

// bucket returns the interval index of v within sorted bounds, or -1
// when v falls outside [bounds[0], bounds[len-1]].
func bucket(bounds []float64, v float64) int {
	if v < bounds[0] || v > bounds[len(bounds)-1] {
		return -1
	}
	i := sort.SearchFloat64s(bounds, v)
	if i == 0 {
		return 0
	}
	if i >= len(bounds) {
		return len(bounds) - 2
	}
	return i - 1
}

// StreamDetector recovers borderless tables from text alignment alone:
// words bucket into visual rows, and column boundaries come from the
// left edges that repeat across rows.
type StreamDetector struct{}

func (StreamDetector) Name() string { return "stream" }

func (StreamDetector) Detect(page PageObjects) []model.Table {
	rows := wordRows(page.Words, rowTolerance)
	if len(rows) < 2 {
		return nil
	}

	// Column anchors: left edges seen in at least two rows.
	var edges []float64
	for _, row := range rows {
		for _, w := range row {
			edges = append(edges, w.X0)
		}
	}
	anchors := groupPositions(edges, snapTolerance*2)
	if len(anchors) < 2 {
		return nil
	}

	counts := make([]int, len(anchors))
	for _, row := range rows {
		for _, w := range row {
			if i := nearest(anchors, w.X0, snapTolerance*2); i >= 0 {
				counts[i]++
			}
		}
	}
	var cols []float64
	for i, a := range anchors {
		if counts[i] >= 2 {
			cols = append(cols, a)
		}
	}
	if len(cols) < 2 {
		return nil
	}

	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(cols))
		for _, w := range row {
			ci := lastAtOrBefore(cols, w.X0+snapTolerance*2)
			if cells[ci] != "" {
				cells[ci] += " "
			}
			cells[ci] += w.Text
		}
		out = append(out, cells)
	}
	return []model.Table{{Rows: out}}
}

func nearest(anchors []float64, v, tol float64) int {
	for i, a := range anchors {
		if v >= a-tol && v <= a+tol {
			return i
		}
	}
	return -1
}

func lastAtOrBefore(cols []float64, v float64) int {
	idx := 0
	for i, c := range cols {
		if c <= v {
			idx = i
		}
	}
	return idx
}
