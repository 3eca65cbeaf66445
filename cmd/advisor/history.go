package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-advisor/internal/report"
	"github.com/go-tangra/go-tangra-advisor/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse archived scan reports",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived reports, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived report",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete archived reports older than the given number of days",
	RunE:  runHistoryPurge,
}

var (
	historyHost  string
	historyLimit int
	purgeDays    int
)

func init() {
	historyListCmd.Flags().StringVar(&historyHost, "hostname", "", "only reports from this host")
	historyListCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of reports")
	historyPurgeCmd.Flags().IntVar(&purgeDays, "days", 90, "purge reports older than this many days")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyPurgeCmd)
}

func openArchive(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	db, err := store.New(cfg.Archive.Database)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return db, nil
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	db, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	recs, total, err := db.List(cmd.Context(), store.ListFilter{Hostname: historyHost, PageSize: historyLimit})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tHOST\tSCANNED\tUPDATES\tTOP PRIORITY")
	for _, r := range recs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.ReportID, r.Hostname, r.ScannedAt.Local().Format(time.DateTime), r.UpdateCount, r.TopPriority)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d reports\n", len(recs), total)
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(cfg.Output)
	if err != nil {
		return err
	}
	db, err := store.New(cfg.Archive.Database)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer db.Close()

	r, err := db.Report(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return newWriter(cmd, format).Write(r)
}

func runHistoryPurge(cmd *cobra.Command, _ []string) error {
	db, err := openArchive(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	n, err := db.Purge(cmd.Context(), time.Duration(purgeDays)*24*time.Hour)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Purged %d reports older than %d days\n", n, purgeDays)
	return nil
}
