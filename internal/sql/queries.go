package sql

import "embed"

// Migrations holds the embedded schema migrations, applied in filename
// order by db.ApplyMigrations.
//
//go:embed migrations
var Migrations embed.FS

//go:embed queries/list_procedures.sql
var ListProcedures string

//go:embed queries/lock_procedure.sql
var LockProcedure string

//go:embed queries/insert_price_point.sql
var InsertPricePoint string

//go:embed queries/select_points_for_procedure.sql
var SelectPointsForProcedure string

//go:embed queries/update_market_stats.sql
var UpdateMarketStats string

//go:embed queries/set_point_outlier.sql
var SetPointOutlier string

//go:embed queries/update_point_comparisons.sql
var UpdatePointComparisons string

//go:embed queries/resolve_hospital.sql
var ResolveHospital string

//go:embed queries/select_points_for_hospital.sql
var SelectPointsForHospital string

//go:embed queries/upsert_hospital_score.sql
var UpsertHospitalScore string

//go:embed queries/mirror_hospital_score.sql
var MirrorHospitalScore string

//go:embed queries/increment_hospital_totals.sql
var IncrementHospitalTotals string

//go:embed queries/upsert_procedures_from_staging.sql
var UpsertProceduresFromStaging string

//go:embed queries/upsert_hospitals_from_staging.sql
var UpsertHospitalsFromStaging string

//go:embed queries/delete_staging_batch.sql
var DeleteStagingBatch string
