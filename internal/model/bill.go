package model

// Word is a single OCR token with its pixel-space bounding box and the
// recognizer's confidence in [0,100]. Ephemeral; never persisted.
type Word struct {
	Text       string
	X1, Y1     int
	X2, Y2     int
	Confidence float64
}

// PageOCRResult is the fused output of one recognizer pass over a page:
// the full-page reading-order text plus the surviving word tokens.
type PageOCRResult struct {
	PageText string
	Words    []Word
}

// Table is an extracted table: ordered rows of ordered string cells.
// Rows may be ragged; downstream consumers must tolerate that.
type Table struct {
	Rows [][]string
}

// Region is the billing region inferred for a parsed bill.
type Region string

const (
	RegionIN      Region = "IN"
	RegionUS      Region = "US"
	RegionUnknown Region = "unknown"
)

// Confidence is the coarse extraction-quality tier for a parsed bill.
// It routes low-quality parses to human review; it is not a probability.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Provider is the billing entity identified on a bill.
type Provider struct {
	Name  string
	GSTIN *string
}

// Patient is the (optional) patient identity found on a bill.
type Patient struct {
	Name *string
}

// LineItem is one charged service line extracted from a bill.
type LineItem struct {
	Description string
	Amount      float64
	Quantity    *int
}

// Totals holds the bill-level amounts found during parsing.
// Total is the explicit "total/net payable" when present, otherwise the
// maximum of AmountsFound.
type Totals struct {
	Total        *float64
	AmountsFound []float64
}

// ParsedBill is the fused, normalized output of the bill field parser.
// Immutable once created; owned by a single audit request.
type ParsedBill struct {
	Provider   Provider
	Patient    Patient
	LineItems  []LineItem
	Totals     Totals
	Region     Region
	Confidence Confidence
	RawText    string
}
