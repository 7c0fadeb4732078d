package pdftable

import "sort"

// PlacedWord is a word with its page-space box, top-left origin.
type PlacedWord struct {
	Text           string
	X0, Y0, X1, Y1 float64
}

// Rule is a ruling line segment drawn on the page.
type Rule struct {
	X0, Y0, X1, Y1 float64
}

// PageObjects is the geometry a detector works from: placed words plus
// any ruling lines the page source could recover.
type PageObjects struct {
	Width  float64
	Height float64
	Words  []PlacedWord
	HRules []Rule
	VRules []Rule
}

// PageSource yields per-page geometry for a document.
type PageSource interface {
	NumPages() int
	Page(idx int) (PageObjects, error)
}

const (
	snapTolerance = 3.0
	rowTolerance  = 4.0
)

// groupPositions clusters scalar positions that lie within tol of each
// other and returns one representative per cluster, sorted ascending.
func groupPositions(vals []float64, tol float64) []float64 {
	if len(vals) == 0 {
		return nil
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	var out []float64
	start := sorted[0]
	prev := sorted[0]
	for _, v := range sorted[1:] {
		if v-prev > tol {
			out = append(out, (start+prev)/2)
			start = v
		}
		prev = v
	}
	out = append(out, (start+prev)/2)
	return out
}

// wordRows buckets words into visual rows by their vertical center and
// returns the rows top to bottom, each sorted left to right.
func wordRows(words []PlacedWord, tol float64) [][]PlacedWord {
	if len(words) == 0 {
		return nil
	}
	sorted := append([]PlacedWord(nil), words...)
	sort.Slice(sorted, func(i, j int) bool {
		ci := (sorted[i].Y0 + sorted[i].Y1) / 2
		cj := (sorted[j].Y0 + sorted[j].Y1) / 2
		if ci != cj {
			return ci < cj
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var rows [][]PlacedWord
	current := []PlacedWord{sorted[0]}
	prevY := (sorted[0].Y0 + sorted[0].Y1) / 2
	for _, w := range sorted[1:] {
		cy := (w.Y0 + w.Y1) / 2
		if cy-prevY > tol {
			rows = append(rows, current)
			current = nil
		}
		current = append(current, w)
		prevY = cy
	}
	rows = append(rows, current)

	for _, row := range rows {
		sort.Slice(row, func(i, j int) bool { return row[i].X0 < row[j].X0 })
	}
	return rows
}
