package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/billaudit/internal/db"
	"github.com/gyeh/billaudit/internal/exitcode"
	"github.com/gyeh/billaudit/internal/logging"
	"github.com/gyeh/billaudit/internal/refload"
)

var loadrefCmd = &cobra.Command{
	Use:   "loadref",
	Short: "Load a reference-rate Parquet dataset into the catalog",
	RunE:  runLoadref,
}

func init() {
	f := loadrefCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to reference-rate Parquet file (required)")
	f.BoolVar(&cfg.KeepStaging, "keep-staging", false, "Keep staging rows after the upsert")
	_ = loadrefCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(loadrefCmd)
}

func runLoadref(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := refload.Run(ctx, pool, log, refload.Options{
		FilePath:    cfg.FilePath,
		KeepStaging: cfg.KeepStaging,
	})
	if err != nil {
		if le, ok := err.(*refload.LoadError); ok {
			log.Error().Err(le.Err).Str("phase", le.Phase).Msg("reference load failed")
			switch le.Phase {
			case "validate":
				os.Exit(exitcode.ValidationError)
			default:
				os.Exit(exitcode.LoadError)
			}
		}
		log.Error().Err(err).Msg("reference load failed")
		os.Exit(exitcode.LoadError)
	}

	fmt.Printf("Reference load complete: %d rows staged, %d procedures, %d hospitals (%.1fs)\n",
		summary.RowsStaged, summary.ProceduresWritten, summary.HospitalsWritten,
		summary.DurationTotal.Seconds())
	return nil
}
