package scoring

import (
	"math"
	"testing"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
)

func fptr(v float64) *float64 { return &v }

// mapMatcher resolves descriptions against a canned catalog by
// canonical name.
type mapMatcher map[string]*model.Procedure

func (m mapMatcher) MatchProcedure(description string) *model.Procedure {
	return m[normalize.CanonicalName(description)]
}

func catalogWith(procs ...*model.Procedure) mapMatcher {
	m := make(mapMatcher, len(procs))
	for _, p := range procs {
		m[normalize.CanonicalName(p.Name)] = p
	}
	return m
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestScoreLineItem_Overcharged(t *testing.T) {
	proc := &model.Procedure{
		ID:             1,
		Name:           "Complete Blood Count",
		CGHSRate:       fptr(80),
		CGHSMaxPrivate: fptr(100),
		MarketMedian:   fptr(90),
	}
	lc := ScoreLineItem(model.LineItem{Description: "Complete Blood Count", Amount: 150}, proc)

	if lc.CGHSRatio == nil || !almostEqual(*lc.CGHSRatio, 0.875) {
		t.Errorf("cghs ratio = %v, want 0.875", lc.CGHSRatio)
	}
	if lc.MarketRatio == nil || !almostEqual(*lc.MarketRatio, 150.0/90.0-1) {
		t.Errorf("market ratio = %v, want %v", lc.MarketRatio, 150.0/90.0-1)
	}
	if !lc.IsOvercharged {
		t.Error("150 against median 90 and ceiling 100 must be flagged")
	}
}

func TestScoreLineItem_WithinBand(t *testing.T) {
	proc := &model.Procedure{
		ID:             1,
		Name:           "Complete Blood Count",
		CGHSRate:       fptr(80),
		CGHSMaxPrivate: fptr(100),
		MarketMedian:   fptr(90),
	}
	lc := ScoreLineItem(model.LineItem{Description: "Complete Blood Count", Amount: 95}, proc)
	if lc.IsOvercharged {
		t.Errorf("95 against median 90 flagged: market ratio %v", *lc.MarketRatio)
	}
}

func TestScoreLineItem_CeilingNeedsCGHSRate(t *testing.T) {
	// Above the private-ward ceiling, but the procedure has no CGHS
	// rate; the ceiling alone must not flag.
	proc := &model.Procedure{
		ID:             1,
		Name:           "ECG",
		CGHSMaxPrivate: fptr(100),
		MarketMedian:   fptr(110),
	}
	lc := ScoreLineItem(model.LineItem{Description: "ECG", Amount: 120}, proc)
	if lc.CGHSRatio != nil {
		t.Errorf("cghs ratio without a cghs rate: %v", *lc.CGHSRatio)
	}
	if lc.IsOvercharged {
		t.Error("ceiling without a cghs rate must not flag")
	}
}

func TestScoreLineItem_CeilingFlagsWithRate(t *testing.T) {
	// Within 20% of the market median but above the CGHS private
	// ceiling, with the rate present.
	proc := &model.Procedure{
		ID:             1,
		Name:           "ECG",
		CGHSRate:       fptr(90),
		CGHSMaxPrivate: fptr(100),
		MarketMedian:   fptr(110),
	}
	lc := ScoreLineItem(model.LineItem{Description: "ECG", Amount: 120}, proc)
	if !lc.IsOvercharged {
		t.Error("amount above cghs_max_private with a cghs rate must be flagged")
	}
}

func TestScoreLineItem_NoReferencesNoFlag(t *testing.T) {
	proc := &model.Procedure{ID: 1, Name: "Dressing"}
	lc := ScoreLineItem(model.LineItem{Description: "Dressing", Amount: 5000}, proc)
	if lc.CGHSRatio != nil || lc.MarketRatio != nil || lc.IsOvercharged {
		t.Errorf("no reference rates must yield no ratios and no flag: %+v", lc)
	}
}

func TestScoreLineItem_Unmatched(t *testing.T) {
	lc := ScoreLineItem(model.LineItem{Description: "Deluxe Room", Amount: 9000}, nil)
	if lc.ProcedureID != nil || lc.IsOvercharged {
		t.Errorf("nil procedure must yield a bare comparison: %+v", lc)
	}
}

func TestAuditBill(t *testing.T) {
	matcher := catalogWith(
		&model.Procedure{
			ID:             1,
			Name:           "Complete Blood Count",
			CGHSRate:       fptr(80),
			CGHSMaxPrivate: fptr(100),
			MarketMedian:   fptr(90),
		},
		&model.Procedure{
			ID:       2,
			Name:     "ECG",
			CGHSRate: fptr(150),
		},
	)
	bill := &model.ParsedBill{
		LineItems: []model.LineItem{
			{Description: "Complete Blood Count", Amount: 150},
			{Description: "ECG", Amount: 150},
			{Description: "Deluxe Room Rent", Amount: 9000},
		},
	}

	res := AuditBill(bill, matcher)

	if len(res.Lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(res.Lines))
	}
	if !almostEqual(res.TotalCharged, 9300) {
		t.Errorf("total charged = %v, want 9300", res.TotalCharged)
	}
	// CBC fair = market median 90, ECG fair = cghs 150, room fair = charged.
	if !almostEqual(res.TotalFairEstimate, 90+150+9000) {
		t.Errorf("fair estimate = %v, want 9240", res.TotalFairEstimate)
	}
	if !almostEqual(res.OverchargePercent, 9300.0/9240.0-1) {
		t.Errorf("overcharge percent = %v", res.OverchargePercent)
	}

	var over, unver int
	for _, is := range res.Issues {
		switch is.Kind {
		case model.IssueOvercharged:
			over++
		case model.IssueUnverifiable:
			unver++
		}
	}
	if over != 1 || unver != 1 {
		t.Errorf("issues = %d overcharged, %d unverifiable; want 1 and 1", over, unver)
	}
}

func TestAuditBill_Deterministic(t *testing.T) {
	matcher := catalogWith(&model.Procedure{
		ID: 1, Name: "MRI Brain", MarketMedian: fptr(6000),
	})
	bill := &model.ParsedBill{
		LineItems: []model.LineItem{{Description: "MRI Brain", Amount: 8000}},
	}
	a := AuditBill(bill, matcher)
	b := AuditBill(bill, matcher)
	if a.TotalFairEstimate != b.TotalFairEstimate || a.OverchargePercent != b.OverchargePercent ||
		len(a.Issues) != len(b.Issues) {
		t.Error("same bill and catalog must audit identically")
	}
}

func TestAuditBill_EmptyBill(t *testing.T) {
	res := AuditBill(&model.ParsedBill{}, catalogWith())
	if len(res.Lines) != 0 || len(res.Issues) != 0 || res.OverchargePercent != 0 {
		t.Errorf("empty bill must audit clean: %+v", res)
	}
}
