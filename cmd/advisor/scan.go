package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-advisor/internal/advisor"
	"github.com/go-tangra/go-tangra-advisor/internal/catalog"
	"github.com/go-tangra/go-tangra-advisor/internal/collector"
	"github.com/go-tangra/go-tangra-advisor/internal/config"
	"github.com/go-tangra/go-tangra-advisor/internal/report"
	"github.com/go-tangra/go-tangra-advisor/internal/scan"
	"github.com/go-tangra/go-tangra-advisor/internal/store"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan this machine and print recommendations",
	RunE:  runScan,
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the plain-text system report",
	RunE:  runSummary,
}

var scanArchive bool

func init() {
	scanCmd.Flags().BoolVar(&scanArchive, "archive", false, "store the report in the archive database")
}

// newSource returns the inventory source scans read from.
var newSource = collector.NewPlatformSource

// newScanService wires collector, catalog and builder from cfg.
func newScanService(cfg *config.Config, opts ...scan.Option) *scan.Service {
	col := collector.New(
		collector.WithSource(newSource()),
		collector.WithQueryTimeout(cfg.QueryTimeout),
		collector.WithSequential(cfg.Sequential),
		collector.WithObserver(scan.ObserveQuery),
	)
	b := advisor.New(advisor.WithCatalog(catalog.LoadOrEmpty(cfg.Catalog)))
	return scan.New(col, b, opts...)
}

func runScan(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}

	var opts []scan.Option
	if scanArchive || cfg.Archive.Enabled {
		db, err := store.New(cfg.Archive.Database)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()
		opts = append(opts, scan.WithArchive(db))
	}

	r, err := newScanService(cfg, opts...).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return newWriter(cmd, format).Write(r)
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	r, err := newScanService(cfg).Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	return newWriter(cmd, report.FormatText).WriteSummary(r)
}

func newWriter(cmd *cobra.Command, format report.Format) *report.Writer {
	noColor, _ := cmd.Flags().GetBool("no-color")
	return report.NewWriter(format, cmd.OutOrStdout(), report.WithColor(!noColor && !color.NoColor))
}
