package refprice

import (
	"context"
	"fmt"
	"sync"

	"github.com/agnivade/levenshtein"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
	embedsql "github.com/gyeh/billaudit/internal/sql"
)

// similarityFloor is the minimum fuzzy-match score below which a
// description is reported as an unknown procedure.
const similarityFloor = 0.72

// Model owns the shared Procedure/Hospital/PricePoint reference data.
// The in-memory lookup cache is bounded by catalog size and owned by the
// instance; no eviction is needed at this scale.
type Model struct {
	pool *pgxpool.Pool
	log  zerolog.Logger

	mu      sync.RWMutex
	byNorm  map[string]*model.Procedure
	byAlias map[string]*model.Procedure
	all     []*model.Procedure
}

// New creates a Model over the given pool. Call LoadCatalog before
// matching.
func New(pool *pgxpool.Pool, log zerolog.Logger) *Model {
	return &Model{
		pool:    pool,
		log:     log,
		byNorm:  make(map[string]*model.Procedure),
		byAlias: make(map[string]*model.Procedure),
	}
}

// LoadCatalog reads the full procedure catalog into the lookup cache.
func (m *Model) LoadCatalog(ctx context.Context) error {
	rows, err := m.pool.Query(ctx, embedsql.ListProcedures)
	if err != nil {
		return fmt.Errorf("list procedures: %w", err)
	}
	defer rows.Close()

	byNorm := make(map[string]*model.Procedure)
	byAlias := make(map[string]*model.Procedure)
	var all []*model.Procedure

	for rows.Next() {
		p := &model.Procedure{}
		if err := rows.Scan(
			&p.ID, &p.Name, &p.NormalizedName, &p.Category, &p.Subcategory, &p.Aliases,
			&p.CGHSCode, &p.PMJAYCode, &p.CPTCode, &p.ICD10Code,
			&p.CGHSRate, &p.CGHSMaxPrivate, &p.PMJAYPackageRate,
			&p.MarketLow, &p.MarketP25, &p.MarketMedian, &p.MarketP75, &p.MarketHigh,
			&p.PricePointCount, &p.LastPriceUpdate,
		); err != nil {
			return fmt.Errorf("scan procedure: %w", err)
		}
		byNorm[p.NormalizedName] = p
		for _, a := range p.Aliases {
			if norm := normalize.CanonicalName(a); norm != "" {
				byAlias[norm] = p
			}
		}
		all = append(all, p)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("read procedures: %w", err)
	}

	m.mu.Lock()
	m.byNorm = byNorm
	m.byAlias = byAlias
	m.all = all
	m.mu.Unlock()

	m.log.Info().Int("procedures", len(all)).Msg("procedure catalog loaded")
	return nil
}

// MatchProcedure resolves a free-text line-item description to a catalog
// procedure: exact normalized lookup, then alias lookup, then fuzzy
// scoring above the similarity floor. Returns nil for an unknown
// procedure; callers must treat that as a data-quality signal, not an
// error.
func (m *Model) MatchProcedure(description string) *model.Procedure {
	norm := normalize.CanonicalName(description)
	if norm == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	if p, ok := m.byNorm[norm]; ok {
		return p
	}
	if p, ok := m.byAlias[norm]; ok {
		return p
	}

	var best *model.Procedure
	bestScore := 0.0
	for _, p := range m.all {
		s := similarity(norm, p.NormalizedName)
		if s > bestScore {
			bestScore = s
			best = p
		}
	}
	if bestScore < similarityFloor {
		return nil
	}
	return best
}

// similarity blends edit-distance and token-overlap signals over
// canonicalized names, both in [0,1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}
	lev := 1 - float64(levenshtein.ComputeDistance(a, b))/float64(maxLen)
	if lev < 0 {
		lev = 0
	}
	return 0.6*lev + 0.4*tokenOverlap(a, b)
}

// tokenOverlap is the Jaccard index of the two token sets.
func tokenOverlap(a, b string) float64 {
	ta := normalize.Tokens(a)
	tb := normalize.Tokens(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	set := make(map[string]bool, len(ta))
	for _, t := range ta {
		set[t] = true
	}
	inter := 0
	union := len(set)
	seen := make(map[string]bool, len(tb))
	for _, t := range tb {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

// cachedProcedure returns the cached entry for id, or nil.
func (m *Model) cachedProcedure(id int64) *model.Procedure {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.all {
		if p.ID == id {
			return p
		}
	}
	return nil
}
