package model

// ReferenceRateRow mirrors the Parquet schema of the government rate
// bootstrap dataset (one row per procedure, CGHS/PMJAY code tables
// flattened). Money fields stay float64 matching the Parquet
// representation.
type ReferenceRateRow struct {
	ProcedureName string  `parquet:"procedure_name"`
	Category      string  `parquet:"category"`
	Subcategory   *string `parquet:"subcategory,optional"`
	Aliases       *string `parquet:"aliases,optional"` // pipe-separated

	CGHSCode  *string `parquet:"cghs_code,optional"`
	PMJAYCode *string `parquet:"pmjay_code,optional"`
	CPTCode   *string `parquet:"cpt_code,optional"`
	ICD10Code *string `parquet:"icd10_code,optional"`

	CGHSRate         *float64 `parquet:"cghs_rate,optional"`
	CGHSMaxPrivate   *float64 `parquet:"cghs_max_private,optional"`
	PMJAYPackageRate *float64 `parquet:"pmjay_package_rate,optional"`

	// Optional hospital registry columns; rows carrying a hospital name
	// also upsert the hospital reference table.
	HospitalName  *string `parquet:"hospital_name,optional"`
	HospitalCity  *string `parquet:"hospital_city,optional"`
	HospitalState *string `parquet:"hospital_state,optional"`
	HospitalType  *string `parquet:"hospital_type,optional"`
	CityTier      *string `parquet:"city_tier,optional"`
}
