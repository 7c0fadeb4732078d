package model

import (
	"time"

	"github.com/google/uuid"
)

// HospitalType classifies a hospital for rate-applicability purposes.
type HospitalType string

const (
	HospitalGovernment    HospitalType = "government"
	HospitalCGHSEmpaneled HospitalType = "cghs_empaneled"
	HospitalPrivate       HospitalType = "private"
	HospitalCorporate     HospitalType = "corporate"
	HospitalNABH          HospitalType = "nabh_accredited"
	HospitalTrust         HospitalType = "trust"
	HospitalTypeUnknown   HospitalType = "unknown"
)

// CityTier is the CGHS city classification used for rate bands.
type CityTier string

const (
	TierMetro   CityTier = "metro"
	Tier1       CityTier = "tier_1"
	Tier2       CityTier = "tier_2"
	Tier3       CityTier = "tier_3"
	TierUnknown CityTier = "unknown"
)

// PriceSource identifies where a price observation came from.
type PriceSource string

const (
	SourceCGHS            PriceSource = "cghs"
	SourcePMJAY           PriceSource = "pmjay"
	SourceUserBill        PriceSource = "user_bill"
	SourceHospitalWebsite PriceSource = "hospital_website"
	SourceInsuranceClaim  PriceSource = "insurance_claim"
	SourceSurvey          PriceSource = "survey"
	SourceScraped         PriceSource = "scraped"
	SourceManual          PriceSource = "manual"
)

// Procedure is a canonical catalog entry with government rates and
// derived market statistics. Market fields are recomputed whenever a new
// price point attaches; they are never hand-edited.
type Procedure struct {
	ID             int64
	Name           string
	NormalizedName string
	Category       string
	Subcategory    *string
	Aliases        []string

	CGHSCode  *string
	PMJAYCode *string
	CPTCode   *string
	ICD10Code *string

	CGHSRate         *float64
	CGHSMaxPrivate   *float64
	PMJAYPackageRate *float64

	MarketLow       *float64
	MarketP25       *float64
	MarketMedian    *float64
	MarketP75       *float64
	MarketHigh      *float64
	PricePointCount int64
	LastPriceUpdate *time.Time
}

// Hospital is a reference hospital with identity, classification, and
// running scores. (NormalizedName, City) is the uniqueness key.
type Hospital struct {
	ID             int64
	Name           string
	NormalizedName string
	City           string
	State          *string
	Pincode        *string
	Aliases        []string

	Type     HospitalType
	CityTier CityTier

	CGHSEmpaneled  bool
	PMJAYEmpaneled bool

	PricingScore      float64
	TransparencyScore float64
	OverallScore      float64

	TotalBillsAnalyzed    int64
	TotalProceduresPriced int64
	AvgOverchargePercent  float64
}

// PricePoint is one append-only price observation. Location and hospital
// classification are snapshotted at insert time so later reclassification
// never rewrites history. Only IsVerified/IsOutlier may flip after insert.
type PricePoint struct {
	ID            uuid.UUID
	ProcedureID   int64
	HospitalID    *int64
	ChargedAmount float64
	Currency      string

	City         *string
	State        *string
	HospitalType HospitalType
	CityTier     CityTier

	Source       PriceSource
	AuditBatchID *uuid.UUID
	Confidence   float64
	IsVerified   bool
	IsOutlier    bool

	CGHSComparison   *float64
	PMJAYComparison  *float64
	MarketComparison *float64

	CreatedAt time.Time
}

// HospitalScore is a time-windowed score snapshot. Rows append per run;
// historical rows are never mutated.
type HospitalScore struct {
	ID                int64
	HospitalID        int64
	PeriodStart       time.Time
	PeriodEnd         time.Time
	PricingScore      float64
	TransparencyScore float64
	ConsistencyScore  float64
	OverallScore      float64

	BillsAnalyzed        int64
	ProceduresPriced     int64
	AvgOverchargePercent float64
	OverchargeFrequency  float64
	ScoreBreakdown       map[string]float64
}
