package model

import "time"

// IssueKind distinguishes the two classes of flagged lines.
type IssueKind string

const (
	IssueOvercharged  IssueKind = "overcharged"
	IssueUnverifiable IssueKind = "unverifiable"
)

// LineComparison is the per-line pricing comparison for a matched
// procedure. Ratios are expressed as fractions over the reference,
// charged/reference - 1; nil when the reference rate is absent.
type LineComparison struct {
	Description   string
	Amount        float64
	ProcedureID   *int64
	ProcedureName *string

	CGHSRatio   *float64
	MarketRatio *float64

	IsOvercharged bool
}

// AuditIssue is one review-worthy finding in an audited bill.
type AuditIssue struct {
	Kind        IssueKind
	Description string
	Amount      float64
	Detail      string
}

// AuditResult is the aggregate outcome of auditing one parsed bill.
// It is the sole input contract for downstream negotiation-letter
// generation and review-task creation.
type AuditResult struct {
	Lines  []LineComparison
	Issues []AuditIssue

	TotalCharged      float64
	TotalFairEstimate float64
	OverchargePercent float64
}

// AuditSummary captures metrics from a single end-to-end audit run.
type AuditSummary struct {
	FilePath         string
	AuditBatchID     string
	PagesOCRd        int
	TablesExtracted  int
	LineItems        int
	Confidence       Confidence
	IssuesFound      int
	PricePointsSaved int
	DurationExtract  time.Duration
	DurationParse    time.Duration
	DurationAudit    time.Duration
	DurationTotal    time.Duration
}
