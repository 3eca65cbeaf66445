package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/go-tangra/go-tangra-advisor/cmd/advisor/assets"
	"github.com/go-tangra/go-tangra-advisor/internal/config"
	"github.com/go-tangra/go-tangra-advisor/internal/logging"
	"github.com/go-tangra/go-tangra-advisor/internal/scan"
	"github.com/go-tangra/go-tangra-advisor/internal/server"
	"github.com/go-tangra/go-tangra-advisor/internal/store"
	"github.com/go-tangra/go-tangra-advisor/internal/winsvc"
)

const serviceName = "TangraHardwareAdvisor"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve scans and reports over HTTP",
	RunE:  runServe,
}

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage Windows service installation",
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install 'advisor serve' as a Windows service",
	RunE:  runServiceInstall,
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Uninstall the Windows service",
	RunE:  runServiceUninstall,
}

func init() {
	serviceCmd.AddCommand(serviceInstallCmd, serviceUninstallCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if winsvc.IsWindowsService() {
		winsvc.SetupEventLog(serviceName)
		return winsvc.RunService(serviceName, func(ctx context.Context) error {
			return serve(ctx, cfg)
		})
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg)
}

func serve(ctx context.Context, cfg *config.Config) error {
	var (
		db   *store.Store
		opts []scan.Option
	)
	if cfg.Archive.Enabled {
		var err error
		if db, err = store.New(cfg.Archive.Database); err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()
		opts = append(opts, scan.WithArchive(db))
		logging.For("serve").WithField("database", cfg.Archive.Database).Info("report archive enabled")
	}

	return server.Run(ctx, cfg, newScanService(cfg, opts...), db, assets.OpenAPIData)
}

func runServiceInstall(cmd *cobra.Command, _ []string) error {
	args := []string{"serve"}
	if cfgFile != "" {
		args = append(args, "--config", cfgFile)
	}

	if err := winsvc.Install(winsvc.Spec{
		Name:        serviceName,
		DisplayName: "Tangra Hardware Advisor",
		Description: "Scans this PC and serves driver and firmware recommendations over HTTP.",
		Args:        args,
	}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Service %s installed successfully\n", serviceName)
	return nil
}

func runServiceUninstall(cmd *cobra.Command, _ []string) error {
	if err := winsvc.Uninstall(serviceName); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Service %s uninstalled successfully\n", serviceName)
	return nil
}
