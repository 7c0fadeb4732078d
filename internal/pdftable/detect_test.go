package pdftable

import (
	"testing"
)

// gridPage builds a 3x3 ruled grid with one word per cell.
func gridPage() PageObjects {
	var p PageObjects
	p.Width, p.Height = 300, 200
	for _, y := range []float64{10, 50, 90, 130} {
		p.HRules = append(p.HRules, Rule{X0: 10, Y0: y, X1: 290, Y1: y})
	}
	for _, x := range []float64{10, 110, 210, 290} {
		p.VRules = append(p.VRules, Rule{X0: x, Y0: 10, X1: x, Y1: 130})
	}
	labels := [][]string{
		{"Service", "Qty", "Amount"},
		{"Consultation", "1", "500"},
		{"CBC", "1", "350"},
	}
	for r, row := range labels {
		for c, text := range row {
			x := 20 + float64(c)*100
			y := 20 + float64(r)*40
			p.Words = append(p.Words, PlacedWord{Text: text, X0: x, Y0: y, X1: x + 40, Y1: y + 10})
		}
	}
	return p
}

func TestLatticeDetector_RuledGrid(t *testing.T) {
	tables := LatticeDetector{}.Detect(gridPage())
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	rows := tables[0].Rows
	if len(rows) != 3 || len(rows[0]) != 3 {
		t.Fatalf("expected 3x3, got %dx%d", len(rows), len(rows[0]))
	}
	if rows[1][0] != "Consultation" || rows[1][2] != "500" {
		t.Errorf("unexpected cell contents: %v", rows[1])
	}
}

func TestLatticeDetector_NoRules(t *testing.T) {
	p := gridPage()
	p.HRules = nil
	p.VRules = nil
	if got := (LatticeDetector{}).Detect(p); len(got) != 0 {
		t.Errorf("expected no tables without rules, got %d", len(got))
	}
}

func TestStreamDetector_AlignedColumns(t *testing.T) {
	var p PageObjects
	p.Width, p.Height = 300, 200
	rows := [][2]string{
		{"Consultation", "500.00"},
		{"Blood", "350.00"},
		{"XRay", "800.00"},
	}
	for i, r := range rows {
		y := 20 + float64(i)*15
		p.Words = append(p.Words,
			PlacedWord{Text: r[0], X0: 20, Y0: y, X1: 90, Y1: y + 10},
			PlacedWord{Text: r[1], X0: 200, Y0: y, X1: 240, Y1: y + 10},
		)
	}

	tables := StreamDetector{}.Detect(p)
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	got := tables[0].Rows
	if len(got) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(got))
	}
	if got[0][0] != "Consultation" || got[0][1] != "500.00" {
		t.Errorf("row 0 = %v", got[0])
	}
}

func TestStreamDetector_SingleRowIsNotATable(t *testing.T) {
	var p PageObjects
	p.Words = []PlacedWord{
		{Text: "Total", X0: 20, Y0: 10, X1: 60, Y1: 20},
		{Text: "850", X0: 200, Y0: 10, X1: 230, Y1: 20},
	}
	if got := (StreamDetector{}).Detect(p); len(got) != 0 {
		t.Errorf("expected no tables for a single row, got %d", len(got))
	}
}

func TestFallbackDetector_GapRuns(t *testing.T) {
	var p PageObjects
	for i := 0; i < 4; i++ {
		y := 20 + float64(i)*15
		p.Words = append(p.Words,
			PlacedWord{Text: "Item", X0: 20, Y0: y, X1: 60, Y1: y + 10},
			PlacedWord{Text: "Amt", X0: 200, Y0: y, X1: 230, Y1: y + 10},
		)
	}
	// A trailing single-cell line ends the run.
	p.Words = append(p.Words, PlacedWord{Text: "Thanks", X0: 20, Y0: 100, X1: 70, Y1: 110})

	tables := FallbackDetector{}.Detect(p)
	if len(tables) != 1 {
		t.Fatalf("expected 1 table, got %d", len(tables))
	}
	if len(tables[0].Rows) != 4 {
		t.Errorf("expected 4 rows, got %d", len(tables[0].Rows))
	}
}

func TestSplitAtGaps_MergesNearWords(t *testing.T) {
	row := []PlacedWord{
		{Text: "Complete", X0: 20, X1: 70},
		{Text: "Blood", X0: 74, X1: 110},
		{Text: "Count", X0: 114, X1: 150},
		{Text: "350", X0: 240, X1: 270},
	}
	cells := splitAtGaps(row, 18)
	if len(cells) != 2 {
		t.Fatalf("expected 2 cells, got %v", cells)
	}
	if cells[0] != "Complete Blood Count" || cells[1] != "350" {
		t.Errorf("cells = %v", cells)
	}
}
