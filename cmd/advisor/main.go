package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-advisor/internal/config"
	"github.com/go-tangra/go-tangra-advisor/internal/logging"
)

var (
	version    = "dev"
	commitHash = "unknown"
	buildDate  = "unknown"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Hardware Advisor - scan this PC and recommend driver and firmware updates",
	Long: `Hardware Advisor reads the CPU, GPU, memory, storage, motherboard/BIOS and
Windows version of this machine, compares them with a manufacturer catalog
and prints update and maintenance recommendations.

Run without a subcommand to scan (equivalent to 'scan').`,
	SilenceUsage: true,
	RunE:         runScan,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "advisor %s (commit: %s, built: %s)\n", version, commitHash, buildDate)
	},
}

// flagKeys maps persistent flags to config keys.
var flagKeys = map[string]string{
	"catalog":       "catalog",
	"output":        "output",
	"sequential":    "sequential",
	"query-timeout": "query_timeout",
	"log-level":     "log.level",
	"log-format":    "log.format",
	"listen":        "server.listen",
	"api-secret":    "server.api_secret",
	"database":      "archive.database",
	"scan-interval": "server.scan_interval",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: ./advisor.yaml or ./configs/advisor.yaml)")
	pf.String("catalog", "", "manufacturer catalog JSON (default: bundled catalog)")
	pf.StringP("output", "o", "", "output format: text, json, yaml, table")
	pf.Bool("sequential", false, "run inventory queries one at a time")
	pf.Duration("query-timeout", 0, "timeout for each inventory query (default 10s)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("listen", "", "HTTP listen address for serve (default :9560)")
	pf.String("api-secret", "", "secret for REST API clients (empty = no auth)")
	pf.String("database", "", "SQLite report archive path (default advisor.db)")
	pf.Duration("scan-interval", 0, "rescan interval while serving (0 = scan on demand only)")
	pf.Bool("no-color", false, "disable colored text output")

	rootCmd.AddCommand(scanCmd, summaryCmd, serveCmd, catalogCmd, historyCmd, serviceCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads config file and environment, applies explicitly set
// flags on top and configures logging.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.New(cfgFile)
	for flag, key := range flagKeys {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", flag, err)
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
