package billparse

import (
	"strings"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
)

// Parse extracts normalized bill fields from raw OCR page text. Every
// heuristic degrades independently to an absent field; the function
// always returns a bill, at worst an empty low-confidence one.
func Parse(raw string) *model.ParsedBill {
	bill := &model.ParsedBill{
		Region:  model.RegionIN,
		RawText: raw,
	}

	if name, ok := firstMatch(providerMatchers, raw); ok {
		bill.Provider.Name = name
	}
	if name, ok := firstMatch(patientMatchers, raw); ok {
		bill.Patient.Name = &name
	}

	bill.Totals.AmountsFound = findAmounts(raw)
	if len(bill.Totals.AmountsFound) > 0 {
		max := bill.Totals.AmountsFound[0]
		for _, v := range bill.Totals.AmountsFound[1:] {
			if v > max {
				max = v
			}
		}
		bill.Totals.Total = &max
	}

	// An explicit total label supersedes the max-of-amounts heuristic.
	if s, ok := firstMatch(totalMatchers, raw); ok {
		if v, ok := normalize.ParseAmount(s); ok {
			bill.Totals.Total = &v
		}
	}

	bill.LineItems = findLineItems(raw)

	if g := gstinPattern.FindString(raw); g != "" {
		bill.Provider.GSTIN = &g
		bill.Region = model.RegionIN
	}

	bill.Confidence = confidenceTier(bill)
	return bill
}

// findAmounts collects every currency-prefixed amount in the text.
func findAmounts(raw string) []float64 {
	var amounts []float64
	for _, m := range amountPattern.FindAllStringSubmatch(raw, -1) {
		if v, ok := normalize.ParseAmount(m[1]); ok {
			amounts = append(amounts, v)
		}
	}
	return amounts
}

// findLineItems scans physical lines for description-then-amount rows.
// A line qualifies when the text before the trailing number is 10 to 50
// characters trimmed, the amount is positive, and the description is
// longer than 5 characters. Repeated matches are deliberately kept as
// separate entries; the source behavior performs no de-duplication.
func findLineItems(raw string) []model.LineItem {
	var items []model.LineItem
	for _, line := range strings.Split(raw, "\n") {
		m := lineItemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		desc := strings.TrimSpace(m[1])
		if len(desc) < 10 || len(desc) > 50 {
			continue
		}
		amount, ok := normalize.ParseAmount(m[2])
		if !ok || amount <= 0 {
			continue
		}
		if len(desc) <= 5 {
			continue
		}
		items = append(items, model.LineItem{Description: desc, Amount: amount})
	}
	return items
}

// confidenceTier maps the count of found fields {provider, patient,
// line item, total} onto the coarse tier: 0,1 low; 2,3 medium; 4 high.
func confidenceTier(b *model.ParsedBill) model.Confidence {
	n := 0
	if b.Provider.Name != "" {
		n++
	}
	if b.Patient.Name != nil {
		n++
	}
	if len(b.LineItems) > 0 {
		n++
	}
	if b.Totals.Total != nil {
		n++
	}
	switch {
	case n >= 4:
		return model.ConfidenceHigh
	case n >= 2:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
