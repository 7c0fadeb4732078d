package model

import "time"

// LoadSummary captures metrics from one reference-rate bootstrap run.
type LoadSummary struct {
	FilePath      string
	FileSHA256    string
	IngestBatchID string

	RowsRead          int64
	RowsStaged        int64
	RowsRejected      int64
	ProceduresWritten int64
	HospitalsWritten  int64

	DurationStage     time.Duration
	DurationTransform time.Duration
	DurationTotal     time.Duration
}
