package refprice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gyeh/billaudit/internal/model"
	embedsql "github.com/gyeh/billaudit/internal/sql"
)

// maxContentionRetries bounds internal retries on serialization
// conflicts before the contention surfaces to the caller.
const maxContentionRetries = 3

// ErrContention reports that a price-point write kept losing the
// per-procedure serialization after bounded retries. Retryable.
var ErrContention = errors.New("price point contention")

// Observation is one incoming price observation before persistence.
type Observation struct {
	ProcedureID   int64
	Hospital      *model.Hospital
	ChargedAmount float64
	Currency      string
	Source        model.PriceSource
	AuditBatchID  *uuid.UUID
	Confidence    float64
	IsVerified    bool
}

// RecordPricePoint persists the observation with a denormalized
// location/classification snapshot, then recomputes the owning
// procedure's market statistics and the new point's comparison ratios.
// Writes for the same procedure serialize on the procedure row; writes
// for different procedures proceed concurrently.
func (m *Model) RecordPricePoint(ctx context.Context, obs Observation) (*model.PricePoint, error) {
	if obs.ChargedAmount <= 0 {
		return nil, fmt.Errorf("charged amount must be positive, got %v", obs.ChargedAmount)
	}

	var pp *model.PricePoint
	var err error
	for attempt := 0; attempt <= maxContentionRetries; attempt++ {
		pp, err = m.recordOnce(ctx, obs)
		if err == nil {
			return pp, nil
		}
		if !isSerializationFailure(err) {
			return nil, err
		}
		m.log.Warn().Err(err).Int64("procedure_id", obs.ProcedureID).
			Int("attempt", attempt+1).Msg("price point write contended, retrying")
	}
	return nil, fmt.Errorf("%w: procedure %d: %v", ErrContention, obs.ProcedureID, err)
}

func (m *Model) recordOnce(ctx context.Context, obs Observation) (*model.PricePoint, error) {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	// Serialize on the procedure row; this also yields the government
	// rates needed for the comparison ratios.
	var cghsRate, cghsMaxPrivate, pmjayRate *float64
	if err := tx.QueryRow(ctx, embedsql.LockProcedure, obs.ProcedureID).
		Scan(&cghsRate, &cghsMaxPrivate, &pmjayRate); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("procedure %d not found", obs.ProcedureID)
		}
		return nil, fmt.Errorf("lock procedure: %w", err)
	}

	pp := newPricePoint(obs)
	pp.CGHSComparison = Ratio(pp.ChargedAmount, cghsRate)
	pp.PMJAYComparison = Ratio(pp.ChargedAmount, pmjayRate)

	if _, err := tx.Exec(ctx, embedsql.InsertPricePoint,
		pp.ID, pp.ProcedureID, pp.HospitalID, pp.ChargedAmount, pp.Currency,
		pp.City, pp.State, string(pp.HospitalType), string(pp.CityTier),
		string(pp.Source), pp.AuditBatchID, pp.Confidence, pp.IsVerified,
		pp.CGHSComparison, pp.PMJAYComparison, nil,
	); err != nil {
		return nil, fmt.Errorf("insert price point: %w", err)
	}

	stats, err := m.refreshMarketStats(ctx, tx, pp)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	m.updateCachedStats(pp.ProcedureID, stats)
	return pp, nil
}

func newPricePoint(obs Observation) *model.PricePoint {
	pp := &model.PricePoint{
		ID:            uuid.New(),
		ProcedureID:   obs.ProcedureID,
		ChargedAmount: obs.ChargedAmount,
		Currency:      obs.Currency,
		HospitalType:  model.HospitalTypeUnknown,
		CityTier:      model.TierUnknown,
		Source:        obs.Source,
		AuditBatchID:  obs.AuditBatchID,
		Confidence:    obs.Confidence,
		IsVerified:    obs.IsVerified,
		CreatedAt:     time.Now().UTC(),
	}
	if pp.Currency == "" {
		pp.Currency = "INR"
	}
	if pp.Confidence <= 0 {
		pp.Confidence = 0.5
	}
	// Snapshot location and classification at insert time; later
	// hospital reclassification must not rewrite history.
	if h := obs.Hospital; h != nil {
		pp.HospitalID = &h.ID
		pp.City = &h.City
		pp.State = h.State
		pp.HospitalType = h.Type
		pp.CityTier = h.CityTier
	}
	return pp
}

// refreshMarketStats applies the one-pass Tukey fence to the new point,
// recomputes percentiles over the non-outlier set, and writes back the
// procedure's market band and the new point's market comparison.
func (m *Model) refreshMarketStats(ctx context.Context, tx pgx.Tx, pp *model.PricePoint) (*MarketStats, error) {
	rows, err := tx.Query(ctx, embedsql.SelectPointsForProcedure, pp.ProcedureID)
	if err != nil {
		return nil, fmt.Errorf("select points: %w", err)
	}

	type point struct {
		id        uuid.UUID
		amount    float64
		isOutlier bool
	}
	var all []point
	for rows.Next() {
		var p point
		var verified bool
		if err := rows.Scan(&p.id, &p.amount, &verified, &p.isOutlier); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan point: %w", err)
		}
		all = append(all, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read points: %w", err)
	}

	// Fence over the pre-existing non-outlier set; the fence is computed
	// once and applied only to the incoming point.
	var prior []float64
	for _, p := range all {
		if p.id != pp.ID && !p.isOutlier {
			prior = append(prior, p.amount)
		}
	}
	if fence, ok := FenceFor(prior); ok && len(prior) >= 4 && fence.Outside(pp.ChargedAmount) {
		pp.IsOutlier = true
		if _, err := tx.Exec(ctx, embedsql.SetPointOutlier, pp.ID, true); err != nil {
			return nil, fmt.Errorf("flag outlier: %w", err)
		}
	}

	// Percentiles over all non-outlier points, the new one included when
	// it survived the fence.
	var amounts []float64
	for _, p := range all {
		if p.isOutlier || (p.id == pp.ID && pp.IsOutlier) {
			continue
		}
		amounts = append(amounts, p.amount)
	}

	stats, ok := ComputeMarketStats(amounts)
	if !ok {
		return nil, nil
	}
	// Raw totals count every stored point, outliers included.
	stats.Count = len(all)

	if _, err := tx.Exec(ctx, embedsql.UpdateMarketStats, pp.ProcedureID,
		stats.Low, stats.P25, stats.Median, stats.P75, stats.High, int64(stats.Count),
	); err != nil {
		return nil, fmt.Errorf("update market stats: %w", err)
	}

	pp.MarketComparison = Ratio(pp.ChargedAmount, &stats.Median)
	if _, err := tx.Exec(ctx, embedsql.UpdatePointComparisons, pp.ID,
		pp.CGHSComparison, pp.PMJAYComparison, pp.MarketComparison,
	); err != nil {
		return nil, fmt.Errorf("update comparisons: %w", err)
	}

	return &stats, nil
}

// updateCachedStats keeps the in-memory catalog consistent with the
// freshly committed market band.
func (m *Model) updateCachedStats(procedureID int64, stats *MarketStats) {
	if stats == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.all {
		if p.ID != procedureID {
			continue
		}
		now := time.Now().UTC()
		p.MarketLow = &stats.Low
		p.MarketP25 = &stats.P25
		p.MarketMedian = &stats.Median
		p.MarketP75 = &stats.P75
		p.MarketHigh = &stats.High
		p.PricePointCount = int64(stats.Count)
		p.LastPriceUpdate = &now
		return
	}
}

// isSerializationFailure reports Postgres serialization/deadlock errors
// that are safe to retry under entity-scoped locking.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
