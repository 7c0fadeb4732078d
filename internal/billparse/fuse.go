package billparse

import (
	"strings"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
)

// FuseTables refines a parsed bill with table-extraction output. Text-
// derived provider/patient fields always win; tables only contribute
// line items, and only when the text pass found none. The confidence
// tier is recomputed after fusion.
func FuseTables(bill *model.ParsedBill, tables []model.Table) *model.ParsedBill {
	if bill == nil {
		return nil
	}
	if len(bill.LineItems) > 0 || len(tables) == 0 {
		return bill
	}

	var items []model.LineItem
	for _, t := range tables {
		for _, row := range t.Rows {
			if item, ok := lineItemFromRow(row); ok {
				items = append(items, item)
			}
		}
	}
	if len(items) > 0 {
		bill.LineItems = items
		bill.Confidence = confidenceTier(bill)
	}
	return bill
}

// lineItemFromRow interprets a table row as description-first,
// amount-last. Cleaning pads short rows with empty cells, so the amount
// is the last non-empty cell. Header-ish and degenerate rows are
// rejected.
func lineItemFromRow(row []string) (model.LineItem, bool) {
	if len(row) < 2 {
		return model.LineItem{}, false
	}
	desc := strings.TrimSpace(row[0])
	last := len(row) - 1
	for last > 0 && strings.TrimSpace(row[last]) == "" {
		last--
	}
	if last == 0 {
		return model.LineItem{}, false
	}
	amount, ok := normalize.ParseAmount(row[last])
	if !ok || amount <= 0 {
		return model.LineItem{}, false
	}
	if len(desc) <= 5 {
		return model.LineItem{}, false
	}
	item := model.LineItem{Description: desc, Amount: amount}

	// A middle column that parses as a small integer is a quantity.
	if last >= 2 {
		if q, ok := normalize.ParseAmount(row[1]); ok && q > 0 && q < 1000 && q == float64(int(q)) {
			qty := int(q)
			item.Quantity = &qty
		}
	}
	return item, true
}
