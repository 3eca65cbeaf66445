package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/go-tangra/go-tangra-advisor/internal/catalog"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the manufacturer catalog",
}

var catalogShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective catalog",
	RunE:  runCatalogShow,
}

var catalogValidateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Check a catalog document and list skipped entries",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCatalogValidate,
}

func init() {
	catalogCmd.AddCommand(catalogShowCmd, catalogValidateCmd)
}

func runCatalogShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	doc := catalog.LoadOrEmpty(cfg.Catalog).Document()

	out := cmd.OutOrStdout()
	if cfg.Output == "yaml" {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func runCatalogValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	path := cfg.Catalog
	if len(args) == 1 {
		path = args[0]
	}

	var cat *catalog.Catalog
	if path == "" {
		cat, err = catalog.Default()
		path = "bundled catalog"
	} else {
		cat, err = catalog.Load(path)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range cat.Problems() {
		fmt.Fprintf(out, "skipped: %s\n", p)
	}
	fmt.Fprintf(out, "%s: %d entries, %d problems\n", path, cat.Len(), len(cat.Problems()))
	if n := len(cat.Problems()); n > 0 {
		return fmt.Errorf("catalog has %d problems", n)
	}
	return nil
}
