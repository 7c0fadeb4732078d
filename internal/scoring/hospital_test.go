package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

var (
	periodStart = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	periodEnd   = time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
)

func TestBuildScore_EmptyWindowIsNeutral(t *testing.T) {
	s := buildScore(7, periodStart, periodEnd, nil)
	if s.PricingScore != neutralScore || s.TransparencyScore != neutralScore ||
		s.ConsistencyScore != neutralScore || s.OverallScore != neutralScore {
		t.Errorf("empty window must score neutral: %+v", s)
	}
	if s.BillsAnalyzed != 0 || s.ProceduresPriced != 0 {
		t.Errorf("empty window must report zero volume: %+v", s)
	}
}

func TestBuildScore_Components(t *testing.T) {
	batchA := uuid.New()
	batchB := uuid.New()
	points := []windowPoint{
		{procedureID: 1, amount: 100, isVerified: true, marketComp: fptr(0.0), auditBatchID: &batchA},
		{procedureID: 2, amount: 110, isVerified: true, marketComp: fptr(0.1), auditBatchID: &batchA},
		{procedureID: 3, amount: 150, marketComp: fptr(0.5), auditBatchID: &batchB},
		{procedureID: 1, amount: 9000, isOutlier: true, marketComp: fptr(89.0)},
	}
	s := buildScore(7, periodStart, periodEnd, points)

	// Outlier excluded from pricing: mean(0, 0.1, 0.5) = 0.2.
	if !almostEqual(s.AvgOverchargePercent, 0.2) {
		t.Errorf("avg overcharge = %v, want 0.2", s.AvgOverchargePercent)
	}
	if !almostEqual(s.PricingScore, 80) {
		t.Errorf("pricing = %v, want 80", s.PricingScore)
	}
	// Verified counts every point, outliers included: 2 of 4.
	if !almostEqual(s.TransparencyScore, 50) {
		t.Errorf("transparency = %v, want 50", s.TransparencyScore)
	}
	if !almostEqual(s.OverchargeFrequency, 1.0/3.0) {
		t.Errorf("overcharge frequency = %v, want 1/3", s.OverchargeFrequency)
	}
	if s.ProceduresPriced != 3 {
		t.Errorf("procedures priced = %d, want 3", s.ProceduresPriced)
	}
	if s.BillsAnalyzed != 2 {
		t.Errorf("bills analyzed = %d, want 2", s.BillsAnalyzed)
	}
	want := (s.PricingScore + s.TransparencyScore + s.ConsistencyScore) / 3
	if !almostEqual(s.OverallScore, want) {
		t.Errorf("overall = %v, want mean of components %v", s.OverallScore, want)
	}
	for _, k := range []string{"pricing", "transparency", "consistency"} {
		if _, ok := s.ScoreBreakdown[k]; !ok {
			t.Errorf("breakdown missing %q", k)
		}
	}
}

func TestBuildScore_GrossOverchargeFloorsAtZero(t *testing.T) {
	points := []windowPoint{
		{procedureID: 1, amount: 900, marketComp: fptr(2.0)},
		{procedureID: 2, amount: 950, marketComp: fptr(2.1)},
	}
	s := buildScore(7, periodStart, periodEnd, points)
	if s.PricingScore != 0 {
		t.Errorf("pricing = %v, want 0 for 200%%+ average overcharge", s.PricingScore)
	}
}

func TestConsistencyScore(t *testing.T) {
	if got := consistencyScore([]float64{0.1, 0.1, 0.1}); !almostEqual(got, 100) {
		t.Errorf("identical ratios = %v, want 100", got)
	}
	tight := consistencyScore([]float64{0.05, 0.10, 0.08})
	loose := consistencyScore([]float64{-0.5, 1.5, 0.0, 3.0})
	if tight <= loose {
		t.Errorf("tight band %v must outscore loose band %v", tight, loose)
	}
	if loose < 0 || tight > 100 {
		t.Errorf("scores out of range: tight %v loose %v", tight, loose)
	}
}

func TestBuildScore_Idempotent(t *testing.T) {
	batch := uuid.New()
	points := []windowPoint{
		{procedureID: 1, amount: 100, isVerified: true, marketComp: fptr(0.3), auditBatchID: &batch},
		{procedureID: 2, amount: 200, marketComp: fptr(-0.1), auditBatchID: &batch},
	}
	a := buildScore(7, periodStart, periodEnd, points)
	b := buildScore(7, periodStart, periodEnd, points)
	if a.OverallScore != b.OverallScore || a.PricingScore != b.PricingScore ||
		a.OverchargeFrequency != b.OverchargeFrequency {
		t.Error("same window must score identically on re-run")
	}
}
