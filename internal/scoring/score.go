// Package scoring turns parsed bills into audit findings and rolls
// price observations up into hospital score snapshots.
package scoring

import (
	"fmt"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/refprice"
)

// overchargeThreshold is the market-ratio fraction above which a line
// is flagged. 0.20 means 20% over the market median.
const overchargeThreshold = 0.20

// ProcedureMatcher resolves a free-text line description to a catalog
// procedure, or nil when nothing matches.
type ProcedureMatcher interface {
	MatchProcedure(description string) *model.Procedure
}

// ScoreLineItem compares one charged line against a matched procedure's
// reference rates. proc may be nil for an unmatched line; the result
// then carries no ratios and is never flagged as overcharged.
func ScoreLineItem(item model.LineItem, proc *model.Procedure) model.LineComparison {
	lc := model.LineComparison{
		Description: item.Description,
		Amount:      item.Amount,
	}
	if proc == nil {
		return lc
	}
	lc.ProcedureID = &proc.ID
	lc.ProcedureName = &proc.Name

	lc.CGHSRatio = refprice.Ratio(item.Amount, proc.CGHSRate)
	lc.MarketRatio = refprice.Ratio(item.Amount, proc.MarketMedian)

	if lc.MarketRatio != nil && *lc.MarketRatio > overchargeThreshold {
		lc.IsOvercharged = true
	}
	// The private-ward ceiling applies only when the procedure also
	// carries a CGHS rate.
	if lc.CGHSRatio != nil && proc.CGHSMaxPrivate != nil && item.Amount > *proc.CGHSMaxPrivate {
		lc.IsOvercharged = true
	}
	return lc
}

// AuditBill scores every line item of a parsed bill against the
// procedure catalog. Unmatched lines become unverifiable issues;
// flagged lines become overcharge issues. The fair estimate prefers the
// market median, falls back to the CGHS rate, and keeps the charged
// amount when neither reference exists.
func AuditBill(bill *model.ParsedBill, matcher ProcedureMatcher) *model.AuditResult {
	res := &model.AuditResult{}

	for _, item := range bill.LineItems {
		proc := matcher.MatchProcedure(item.Description)
		lc := ScoreLineItem(item, proc)
		res.Lines = append(res.Lines, lc)
		res.TotalCharged += item.Amount
		res.TotalFairEstimate += fairEstimate(item, proc)

		switch {
		case proc == nil:
			res.Issues = append(res.Issues, model.AuditIssue{
				Kind:        model.IssueUnverifiable,
				Description: item.Description,
				Amount:      item.Amount,
				Detail:      "no matching procedure in the reference catalog",
			})
		case lc.IsOvercharged:
			res.Issues = append(res.Issues, model.AuditIssue{
				Kind:        model.IssueOvercharged,
				Description: item.Description,
				Amount:      item.Amount,
				Detail:      overchargeDetail(lc, proc),
			})
		}
	}

	if res.TotalFairEstimate > 0 {
		res.OverchargePercent = res.TotalCharged/res.TotalFairEstimate - 1
	}
	return res
}

func fairEstimate(item model.LineItem, proc *model.Procedure) float64 {
	if proc == nil {
		return item.Amount
	}
	if proc.MarketMedian != nil && *proc.MarketMedian > 0 {
		return *proc.MarketMedian
	}
	if proc.CGHSRate != nil && *proc.CGHSRate > 0 {
		return *proc.CGHSRate
	}
	return item.Amount
}

func overchargeDetail(lc model.LineComparison, proc *model.Procedure) string {
	if lc.MarketRatio != nil && *lc.MarketRatio > overchargeThreshold {
		return fmt.Sprintf("charged %.0f%% over the market median for %s",
			*lc.MarketRatio*100, proc.Name)
	}
	return fmt.Sprintf("charged %.2f exceeds the CGHS private-ward ceiling %.2f for %s",
		lc.Amount, *proc.CGHSMaxPrivate, proc.Name)
}
