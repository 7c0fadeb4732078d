package scoring

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/billaudit/internal/model"
	embedsql "github.com/gyeh/billaudit/internal/sql"
)

// neutralScore is used when a window holds no observations; a hospital
// with no data is neither rewarded nor penalized.
const neutralScore = 50

// Scorer computes and persists hospital score snapshots.
type Scorer struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

func NewScorer(pool *pgxpool.Pool, log zerolog.Logger) *Scorer {
	return &Scorer{pool: pool, log: log}
}

// windowPoint is the slice of a price point the scorer needs.
type windowPoint struct {
	id           uuid.UUID
	procedureID  int64
	amount       float64
	isVerified   bool
	isOutlier    bool
	marketComp   *float64
	cghsComp     *float64
	auditBatchID *uuid.UUID
}

// RecomputeHospitalScore aggregates the hospital's price points inside
// [periodStart, periodEnd), writes the period's snapshot row, and
// mirrors the fresh scores onto the hospital. Re-running the same
// period rewrites that period's snapshot; other periods stay untouched.
func (s *Scorer) RecomputeHospitalScore(ctx context.Context, hospitalID int64, periodStart, periodEnd time.Time) (*model.HospitalScore, error) {
	points, err := s.windowPoints(ctx, hospitalID, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	score := buildScore(hospitalID, periodStart, periodEnd, points)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := tx.QueryRow(ctx, embedsql.UpsertHospitalScore,
		score.HospitalID, score.PeriodStart, score.PeriodEnd,
		score.PricingScore, score.TransparencyScore, score.ConsistencyScore, score.OverallScore,
		score.BillsAnalyzed, score.ProceduresPriced, score.AvgOverchargePercent,
		score.OverchargeFrequency, score.ScoreBreakdown,
	).Scan(&score.ID); err != nil {
		return nil, fmt.Errorf("upsert hospital score: %w", err)
	}

	if _, err := tx.Exec(ctx, embedsql.MirrorHospitalScore,
		score.HospitalID, score.PricingScore, score.TransparencyScore,
		score.OverallScore, score.ProceduresPriced, score.AvgOverchargePercent,
	); err != nil {
		return nil, fmt.Errorf("mirror hospital score: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	s.log.Info().
		Int64("hospital_id", hospitalID).
		Time("period_start", periodStart).
		Time("period_end", periodEnd).
		Int64("points", int64(len(points))).
		Float64("overall", score.OverallScore).
		Msg("hospital score recomputed")
	return score, nil
}

func (s *Scorer) windowPoints(ctx context.Context, hospitalID int64, start, end time.Time) ([]windowPoint, error) {
	rows, err := s.pool.Query(ctx, embedsql.SelectPointsForHospital, hospitalID, start, end)
	if err != nil {
		return nil, fmt.Errorf("select hospital points: %w", err)
	}
	defer rows.Close()

	var points []windowPoint
	for rows.Next() {
		var p windowPoint
		if err := rows.Scan(&p.id, &p.procedureID, &p.amount, &p.isVerified,
			&p.isOutlier, &p.marketComp, &p.cghsComp, &p.auditBatchID); err != nil {
			return nil, fmt.Errorf("scan hospital point: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read hospital points: %w", err)
	}
	return points, nil
}

// buildScore derives the three component scores from the window's
// points. Outliers are excluded from the pricing and consistency
// components but still count toward transparency and volume.
func buildScore(hospitalID int64, start, end time.Time, points []windowPoint) *model.HospitalScore {
	score := &model.HospitalScore{
		HospitalID:  hospitalID,
		PeriodStart: start,
		PeriodEnd:   end,
	}

	if len(points) == 0 {
		score.PricingScore = neutralScore
		score.TransparencyScore = neutralScore
		score.ConsistencyScore = neutralScore
		score.OverallScore = neutralScore
		score.ScoreBreakdown = breakdown(score)
		return score
	}

	verified := 0
	procedures := make(map[int64]bool)
	batches := make(map[uuid.UUID]bool)
	var comps []float64
	flagged := 0

	for _, p := range points {
		if p.isVerified {
			verified++
		}
		procedures[p.procedureID] = true
		if p.auditBatchID != nil {
			batches[*p.auditBatchID] = true
		}
		if p.isOutlier || p.marketComp == nil {
			continue
		}
		comps = append(comps, *p.marketComp)
		if *p.marketComp > overchargeThreshold {
			flagged++
		}
	}

	score.ProceduresPriced = int64(len(procedures))
	score.BillsAnalyzed = int64(len(batches))
	score.TransparencyScore = 100 * float64(verified) / float64(len(points))

	if len(comps) == 0 {
		score.PricingScore = neutralScore
		score.ConsistencyScore = neutralScore
	} else {
		avg := mean(comps)
		score.AvgOverchargePercent = avg
		score.OverchargeFrequency = float64(flagged) / float64(len(comps))
		score.PricingScore = 100 - clamp(avg*100, 0, 100)
		score.ConsistencyScore = consistencyScore(comps)
	}

	score.OverallScore = (score.PricingScore + score.TransparencyScore + score.ConsistencyScore) / 3
	score.ScoreBreakdown = breakdown(score)
	return score
}

// consistencyScore rewards hospitals whose charges sit in a tight band
// around the market median. It is 100 minus the coefficient of
// variation of the charged/median ratios, floored at zero.
func consistencyScore(comps []float64) float64 {
	ratios := make([]float64, len(comps))
	for i, c := range comps {
		ratios[i] = 1 + c
	}
	m := mean(ratios)
	if m <= 0 {
		return 0
	}
	var ss float64
	for _, r := range ratios {
		d := r - m
		ss += d * d
	}
	cv := math.Sqrt(ss/float64(len(ratios))) / m
	return clamp(100*(1-cv), 0, 100)
}

func breakdown(score *model.HospitalScore) map[string]float64 {
	return map[string]float64{
		"pricing":      score.PricingScore,
		"transparency": score.TransparencyScore,
		"consistency":  score.ConsistencyScore,
	}
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
