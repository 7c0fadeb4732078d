package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/billaudit/internal/config"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "billaudit",
	Short: "Medical bill audit and price benchmarking",
	Long:  "Extracts line items from hospital bills (PDF or scan), compares them against CGHS/PMJAY and crowd-sourced market rates, and maintains hospital pricing scores in Postgres.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", os.Getenv("DATABASE_URL"), "Postgres connection string (or set DATABASE_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
}
