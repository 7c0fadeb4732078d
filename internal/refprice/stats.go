package refprice

import (
	"math"
	"sort"
)

// Percentile computes the p-th percentile (0..1) of values using linear
// interpolation between order statistics (R type 7), chosen for
// determinism and testability. Returns ok=false on an empty input.
func Percentile(values []float64, p float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0], true
	}
	if p >= 1 {
		return sorted[len(sorted)-1], true
	}

	h := p * float64(len(sorted)-1)
	lo := int(math.Floor(h))
	hi := int(math.Ceil(h))
	if lo == hi {
		return sorted[lo], true
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo]), true
}

// MarketStats are the derived percentile bands over a procedure's
// non-outlier price observations.
type MarketStats struct {
	Low    float64
	P25    float64
	Median float64
	P75    float64
	High   float64
	Count  int
}

// ComputeMarketStats derives the full percentile band. Returns ok=false
// when there are no observations.
func ComputeMarketStats(amounts []float64) (MarketStats, bool) {
	if len(amounts) == 0 {
		return MarketStats{}, false
	}
	low, _ := Percentile(amounts, 0)
	p25, _ := Percentile(amounts, 0.25)
	med, _ := Percentile(amounts, 0.5)
	p75, _ := Percentile(amounts, 0.75)
	high, _ := Percentile(amounts, 1)
	return MarketStats{Low: low, P25: p25, Median: med, P75: p75, High: high, Count: len(amounts)}, true
}

// TukeyFence is the outlier band [P25 − k·IQR, P75 + k·IQR] with the
// standard k = 1.5.
type TukeyFence struct {
	Lower float64
	Upper float64
}

// FenceFor computes the Tukey fence over the given amounts. The fence is
// computed once per recomputation pass and then applied; flagging a
// point never triggers re-evaluation of the others within the same pass.
func FenceFor(amounts []float64) (TukeyFence, bool) {
	if len(amounts) == 0 {
		return TukeyFence{}, false
	}
	p25, _ := Percentile(amounts, 0.25)
	p75, _ := Percentile(amounts, 0.75)
	iqr := p75 - p25
	return TukeyFence{Lower: p25 - 1.5*iqr, Upper: p75 + 1.5*iqr}, true
}

// Outside reports whether v falls outside the fence.
func (f TukeyFence) Outside(v float64) bool {
	return v < f.Lower || v > f.Upper
}

// Ratio returns charged/reference − 1, or nil when the reference is
// absent or non-positive. Absence of a reference is never evidence of
// anything; callers must treat nil as "no signal".
func Ratio(charged float64, reference *float64) *float64 {
	if reference == nil || *reference <= 0 {
		return nil
	}
	r := charged / *reference - 1
	return &r
}
