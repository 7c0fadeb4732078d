package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/billaudit/internal/db"
	"github.com/gyeh/billaudit/internal/exitcode"
	"github.com/gyeh/billaudit/internal/logging"
	"github.com/gyeh/billaudit/internal/model"
	"github.com/gyeh/billaudit/internal/ocr"
	"github.com/gyeh/billaudit/internal/pipeline"
)

var (
	auditConfigPath string
	auditNoOCR      bool
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit a hospital bill (PDF or scanned image)",
	RunE:  runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&cfg.FilePath, "file", "", "Path to bill PDF or image (required)")
	f.StringVar(&cfg.HospitalName, "hospital", "", "Hospital name (overrides the name found on the bill)")
	f.StringVar(&cfg.HospitalCity, "city", "", "Hospital city")
	f.StringVar(&cfg.Pages, "pages", "all", "Pages to process: all, 2, or 1,3-5")
	f.StringVar(&cfg.Flavor, "flavor", "lattice", "Table detection flavor: lattice or stream")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "Audit without writing price points")
	f.StringVar(&auditConfigPath, "config", "", "YAML config file (OCR languages, page defaults)")
	f.BoolVar(&auditNoOCR, "no-ocr", false, "Disable OCR even for image inputs")
	_ = auditCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat)
	ctx := context.Background()

	if auditConfigPath != "" {
		if err := cfg.LoadFromFile(auditConfigPath); err != nil {
			log.Error().Err(err).Msg("config file load failed")
			os.Exit(exitcode.UsageError)
		}
	}
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

	var recognizer ocr.TextRecognizer
	if !auditNoOCR {
		recognizer = &ocr.TesseractRecognizer{Languages: cfg.OCRLanguages}
	}

	summary, result, err := pipeline.New(pool, log, recognizer).Run(ctx, &cfg)
	if err != nil {
		if pe, ok := err.(*pipeline.PipelineError); ok {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("audit failed")
			switch pe.Phase {
			case "extract":
				os.Exit(exitcode.ExtractError)
			default:
				os.Exit(exitcode.AuditError)
			}
		}
		log.Error().Err(err).Msg("audit failed")
		os.Exit(exitcode.AuditError)
	}

	printAuditReport(summary, result)
	return nil
}

func printAuditReport(summary *model.AuditSummary, result *model.AuditResult) {
	fmt.Printf("Audit complete: %d line items, %d issues, confidence %s (%.1fs)\n",
		summary.LineItems, summary.IssuesFound, summary.Confidence,
		summary.DurationTotal.Seconds())
	fmt.Printf("Charged: %.2f  Fair estimate: %.2f  Overcharge: %+.1f%%\n",
		result.TotalCharged, result.TotalFairEstimate, result.OverchargePercent*100)

	for _, issue := range result.Issues {
		fmt.Printf("  [%s] %s (%.2f): %s\n", issue.Kind, issue.Description, issue.Amount, issue.Detail)
	}
}
