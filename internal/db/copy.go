package db

import (
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/billaudit/internal/model"
)

// RateSource implements pgx.CopyFromSource by reading RateStagingRows
// from a channel, giving natural backpressure between the Parquet reader
// and the COPY writer.
type RateSource struct {
	ch      <-chan *model.RateStagingRow
	current *model.RateStagingRow
	err     error
}

// NewRateSource creates a CopyFromSource backed by a channel.
func NewRateSource(ch <-chan *model.RateStagingRow) *RateSource {
	return &RateSource{ch: ch}
}

// Next advances to the next row. Returns false when the channel closes.
func (s *RateSource) Next() bool {
	row, ok := <-s.ch
	if !ok {
		return false
	}
	s.current = row
	return true
}

// Values returns the current row's values in COPY column order.
func (s *RateSource) Values() ([]any, error) {
	return s.current.CopyValues(), nil
}

// Err returns any error encountered during iteration.
func (s *RateSource) Err() error {
	return s.err
}

var _ pgx.CopyFromSource = (*RateSource)(nil)
