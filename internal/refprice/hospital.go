package refprice

import (
	"context"
	"fmt"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
	embedsql "github.com/gyeh/billaudit/internal/sql"
)

// ResolveHospital upserts a hospital by (normalized name, city) and
// returns the stored reference entry. New hospitals start with unknown
// classification and neutral scores; hospitals already classified by a
// reference load keep their state, type, and tier, and the returned
// entry carries the stored values.
func (m *Model) ResolveHospital(ctx context.Context, name, city string) (*model.Hospital, error) {
	norm := normalize.CanonicalName(name)
	if norm == "" {
		return nil, fmt.Errorf("empty hospital name")
	}

	h := &model.Hospital{
		Name:           name,
		NormalizedName: norm,
		City:           city,
	}
	var htype, tier string
	if err := m.pool.QueryRow(ctx, embedsql.ResolveHospital,
		h.Name, h.NormalizedName, h.City, nil,
		string(model.HospitalTypeUnknown), string(model.TierUnknown),
	).Scan(&h.ID, &h.State, &htype, &tier); err != nil {
		return nil, fmt.Errorf("resolve hospital: %w", err)
	}
	h.Type = model.HospitalType(htype)
	h.CityTier = model.CityTier(tier)
	return h, nil
}

// NoteBillAnalyzed bumps the hospital's running bill and procedure
// counters after an audit persists its price points.
func (m *Model) NoteBillAnalyzed(ctx context.Context, hospitalID int64, proceduresPriced int64) error {
	if _, err := m.pool.Exec(ctx, embedsql.IncrementHospitalTotals, hospitalID, proceduresPriced); err != nil {
		return fmt.Errorf("increment hospital totals: %w", err)
	}
	return nil
}
