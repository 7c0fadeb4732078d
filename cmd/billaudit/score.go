package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gyeh/billaudit/internal/db"
	"github.com/gyeh/billaudit/internal/exitcode"
	"github.com/gyeh/billaudit/internal/logging"
	"github.com/gyeh/billaudit/internal/scoring"
)

var (
	scoreHospitalID int64
	scorePeriodFrom string
	scorePeriodTo   string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Recompute a hospital's score snapshot for a period",
	RunE:  runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.Int64Var(&scoreHospitalID, "hospital-id", 0, "Hospital ID (required)")
	f.StringVar(&scorePeriodFrom, "from", "", "Period start, YYYY-MM-DD (required)")
	f.StringVar(&scorePeriodTo, "to", "", "Period end, YYYY-MM-DD, exclusive (required)")
	_ = scoreCmd.MarkFlagRequired("hospital-id")
	_ = scoreCmd.MarkFlagRequired("from")
	_ = scoreCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if cfg.DSN == "" {
		log.Error().Msg("--dsn or DATABASE_URL is required")
		os.Exit(exitcode.UsageError)
	}
	start, err := time.Parse("2006-01-02", scorePeriodFrom)
	if err != nil {
		log.Error().Err(err).Msg("invalid --from date")
		os.Exit(exitcode.UsageError)
	}
	end, err := time.Parse("2006-01-02", scorePeriodTo)
	if err != nil {
		log.Error().Err(err).Msg("invalid --to date")
		os.Exit(exitcode.UsageError)
	}
	if !end.After(start) {
		log.Error().Msg("--to must be after --from")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	score, err := scoring.NewScorer(pool, log).RecomputeHospitalScore(ctx, scoreHospitalID, start, end)
	if err != nil {
		log.Error().Err(err).Msg("score recompute failed")
		os.Exit(exitcode.AuditError)
	}

	fmt.Printf("Hospital %d scored for %s to %s\n", scoreHospitalID, scorePeriodFrom, scorePeriodTo)
	fmt.Printf("  pricing:      %.1f\n", score.PricingScore)
	fmt.Printf("  transparency: %.1f\n", score.TransparencyScore)
	fmt.Printf("  consistency:  %.1f\n", score.ConsistencyScore)
	fmt.Printf("  overall:      %.1f\n", score.OverallScore)
	fmt.Printf("  bills: %d  procedures: %d  avg overcharge: %+.1f%%\n",
		score.BillsAnalyzed, score.ProceduresPriced, score.AvgOverchargePercent*100)
	return nil
}
