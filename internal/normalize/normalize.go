package normalize

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gyeh/billaudit/internal/model"
)

// ToRateStagingRow converts a Parquet-read ReferenceRateRow into a
// normalized RateStagingRow ready for COPY.
func ToRateStagingRow(row *model.ReferenceRateRow, batchID uuid.UUID, rowNum int64) (*model.RateStagingRow, error) {
	name := strings.TrimSpace(row.ProcedureName)
	if name == "" {
		return nil, fmt.Errorf("row %d: empty procedure_name", rowNum)
	}

	s := &model.RateStagingRow{
		IngestBatchID:   batchID,
		SourceRowNumber: rowNum,

		ProcedureName:     name,
		ProcedureNameNorm: CanonicalName(name),
		Category:          strings.TrimSpace(row.Category),
		Subcategory:       row.Subcategory,
		Aliases:           row.Aliases,

		CGHSCode:  NormalizeCode(row.CGHSCode),
		PMJAYCode: NormalizeCode(row.PMJAYCode),
		CPTCode:   NormalizeCode(row.CPTCode),
		ICD10Code: NormalizeCode(row.ICD10Code),

		CGHSRate:         row.CGHSRate,
		CGHSMaxPrivate:   row.CGHSMaxPrivate,
		PMJAYPackageRate: row.PMJAYPackageRate,

		HospitalName:     row.HospitalName,
		HospitalNameNorm: NormalizeName(row.HospitalName),
		HospitalCity:     row.HospitalCity,
		HospitalState:    row.HospitalState,
		HospitalType:     row.HospitalType,
		CityTier:         row.CityTier,
	}

	s.SourceRowHash = RowHashFromValues(rowNum,
		name,
		derefStr(row.CGHSCode),
		derefStr(row.PMJAYCode),
		derefStr(row.HospitalName),
		derefStr(row.HospitalCity),
	)

	return s, nil
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
