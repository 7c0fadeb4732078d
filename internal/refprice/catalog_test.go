package refprice

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/normalize"
)

// testModel builds a Model with a canned catalog, no DB.
func testModel(procs ...*model.Procedure) *Model {
	m := New(nil, zerolog.Nop())
	for _, p := range procs {
		p.NormalizedName = normalize.CanonicalName(p.Name)
		m.byNorm[p.NormalizedName] = p
		for _, a := range p.Aliases {
			m.byAlias[normalize.CanonicalName(a)] = p
		}
		m.all = append(m.all, p)
	}
	return m
}

func TestMatchProcedure_ExactNormalized(t *testing.T) {
	m := testModel(
		&model.Procedure{ID: 1, Name: "Complete Blood Count"},
		&model.Procedure{ID: 2, Name: "MRI Brain"},
	)
	got := m.MatchProcedure("  COMPLETE blood count. ")
	if got == nil || got.ID != 1 {
		t.Errorf("got %+v, want procedure 1", got)
	}
}

func TestMatchProcedure_Alias(t *testing.T) {
	m := testModel(
		&model.Procedure{ID: 1, Name: "Complete Blood Count", Aliases: []string{"CBC Test", "Hemogram"}},
	)
	got := m.MatchProcedure("cbc test")
	if got == nil || got.ID != 1 {
		t.Errorf("alias lookup failed: %+v", got)
	}
}

func TestMatchProcedure_Fuzzy(t *testing.T) {
	m := testModel(
		&model.Procedure{ID: 1, Name: "Complete Blood Count"},
		&model.Procedure{ID: 2, Name: "Liver Function Test"},
	)
	// OCR noise: one dropped letter.
	got := m.MatchProcedure("Complete Blod Count")
	if got == nil || got.ID != 1 {
		t.Errorf("fuzzy match failed: %+v", got)
	}
}

func TestMatchProcedure_BelowFloorReturnsNil(t *testing.T) {
	m := testModel(
		&model.Procedure{ID: 1, Name: "Complete Blood Count"},
	)
	if got := m.MatchProcedure("Deluxe Room Rent Per Day"); got != nil {
		t.Errorf("unrelated description matched: %+v", got)
	}
	if got := m.MatchProcedure(""); got != nil {
		t.Errorf("empty description matched: %+v", got)
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	if s := similarity("mri brain", "mri brain"); s != 1 {
		t.Errorf("identical strings: %v", s)
	}
	if s := similarity("a", "zzzzzzzzzz"); s > 0.2 {
		t.Errorf("unrelated strings score too high: %v", s)
	}
}
