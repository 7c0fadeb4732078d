package model

import (
	"github.com/google/uuid"
)

// RateStagingRow is the normalized, DB-ready representation of a single
// reference-rate line from the bootstrap dataset.
type RateStagingRow struct {
	IngestBatchID uuid.UUID

	SourceRowNumber int64
	SourceRowHash   []byte

	ProcedureName     string
	ProcedureNameNorm string
	Category          string
	Subcategory       *string
	Aliases           *string // pipe-separated

	CGHSCode  *string
	PMJAYCode *string
	CPTCode   *string
	ICD10Code *string

	CGHSRate         *float64
	CGHSMaxPrivate   *float64
	PMJAYPackageRate *float64

	HospitalName     *string
	HospitalNameNorm *string
	HospitalCity     *string
	HospitalState    *string
	HospitalType     *string
	CityTier         *string
}

// RateStagingColumns returns the ordered column names for COPY into
// ingest.stage_reference_rates.
func RateStagingColumns() []string {
	return []string{
		"ingest_batch_id",
		"source_row_number",
		"source_row_hash",
		"procedure_name",
		"procedure_name_norm",
		"category",
		"subcategory",
		"aliases",
		"cghs_code",
		"pmjay_code",
		"cpt_code",
		"icd10_code",
		"cghs_rate",
		"cghs_max_private",
		"pmjay_package_rate",
		"hospital_name",
		"hospital_name_norm",
		"hospital_city",
		"hospital_state",
		"hospital_type",
		"city_tier",
	}
}

// CopyValues returns the row values in the same order as
// RateStagingColumns(), suitable for pgx CopyFromSource.
func (r *RateStagingRow) CopyValues() []any {
	return []any{
		r.IngestBatchID,
		r.SourceRowNumber,
		r.SourceRowHash,
		r.ProcedureName,
		r.ProcedureNameNorm,
		r.Category,
		r.Subcategory,
		r.Aliases,
		r.CGHSCode,
		r.PMJAYCode,
		r.CPTCode,
		r.ICD10Code,
		r.CGHSRate,
		r.CGHSMaxPrivate,
		r.PMJAYPackageRate,
		r.HospitalName,
		r.HospitalNameNorm,
		r.HospitalCity,
		r.HospitalState,
		r.HospitalType,
		r.CityTier,
	}
}
