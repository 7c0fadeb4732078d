package refprice

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPercentile_RType7(t *testing.T) {
	vals := []float64{10, 20, 30, 40}
	cases := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{0.25, 17.5},
		{0.5, 25},
		{0.75, 32.5},
		{1, 40},
	}
	for _, c := range cases {
		got, ok := Percentile(vals, c.p)
		if !ok || !almostEqual(got, c.want) {
			t.Errorf("Percentile(%v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestPercentile_Empty(t *testing.T) {
	if _, ok := Percentile(nil, 0.5); ok {
		t.Error("expected ok=false for empty input")
	}
}

func TestComputeMarketStats_Monotonic(t *testing.T) {
	sets := [][]float64{
		{100, 200, 300, 400, 500},
		{50, 50, 50, 50},
		{1, 1000, 2, 999, 3, 998, 4},
	}
	for _, vals := range sets {
		s, ok := ComputeMarketStats(vals)
		if !ok {
			t.Fatalf("ComputeMarketStats(%v) not ok", vals)
		}
		if !(s.Low <= s.P25 && s.P25 <= s.Median && s.Median <= s.P75 && s.P75 <= s.High) {
			t.Errorf("band not monotonic for %v: %+v", vals, s)
		}
	}
}

func TestFenceFor_Tukey(t *testing.T) {
	// p25=17.5 p75=32.5 iqr=15 -> fence [-5, 55]
	fence, ok := FenceFor([]float64{10, 20, 30, 40})
	if !ok {
		t.Fatal("expected fence")
	}
	if !almostEqual(fence.Lower, -5) || !almostEqual(fence.Upper, 55) {
		t.Errorf("fence = %+v, want [-5, 55]", fence)
	}
	if fence.Outside(50) {
		t.Error("50 is inside the fence")
	}
	if !fence.Outside(56) {
		t.Error("56 is outside the fence")
	}
}

func TestFence_OnePassNoCascade(t *testing.T) {
	// Removing the extreme point from the input changes the fence, but
	// within one pass the fence is fixed before application: every point
	// is judged against the same band.
	amounts := []float64{100, 110, 120, 130, 5000}
	fence, _ := FenceFor(amounts)
	flagged := make([]bool, len(amounts))
	for i, v := range amounts {
		flagged[i] = fence.Outside(v)
	}
	for i, v := range amounts[:4] {
		if flagged[i] {
			t.Errorf("inlier %v flagged", v)
		}
	}
	if !flagged[4] {
		t.Error("5000 should be flagged")
	}
}

func TestRatio(t *testing.T) {
	ref := 80.0
	r := Ratio(150, &ref)
	if r == nil || !almostEqual(*r, 0.875) {
		t.Errorf("Ratio(150, 80) = %v, want 0.875", r)
	}
	if Ratio(150, nil) != nil {
		t.Error("nil reference must yield nil ratio")
	}
	zero := 0.0
	if Ratio(150, &zero) != nil {
		t.Error("zero reference must yield nil ratio")
	}
}
