// Package server exposes scans, archived reports and the catalog over HTTP.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/go-kratos/kratos/v2/middleware/recovery"
	kratoshttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerUI "github.com/tx7do/kratos-swagger-ui"
	"golang.org/x/time/rate"

	_ "github.com/go-tangra/go-tangra-advisor/internal/codec"
	"github.com/go-tangra/go-tangra-advisor/internal/config"
	"github.com/go-tangra/go-tangra-advisor/internal/daemon"
	"github.com/go-tangra/go-tangra-advisor/internal/logging"
	"github.com/go-tangra/go-tangra-advisor/internal/scan"
	"github.com/go-tangra/go-tangra-advisor/internal/store"
)

// NewHTTPServer builds the kratos HTTP server with the API routes, metrics
// and, when enabled, the Swagger UI.
func NewHTTPServer(cfg config.ServerConfig, h *Handler, openAPIData []byte) *kratoshttp.Server {
	srv := kratoshttp.NewServer(
		kratoshttp.Address(cfg.Listen),
		kratoshttp.Timeout(requestTimeout),
		kratoshttp.Middleware(
			recovery.Recovery(),
			APIKeyMiddleware(cfg.APISecret),
			RateLimitMiddleware(scanLimiter(cfg.ScanRatePerMinute), OperationCreateScan),
		),
	)
	h.Register(srv)
	srv.Handle("/metrics", promhttp.Handler())

	// Registered via HandlePrefix, so it bypasses the middleware chain.
	if cfg.EnableSwagger && len(openAPIData) > 0 {
		swaggerUI.RegisterSwaggerUIServerWithOption(
			srv,
			swaggerUI.WithTitle("Hardware Advisor"),
			swaggerUI.WithMemoryData(openAPIData, "yaml"),
		)
		logging.For("server").Infof("Swagger UI available at http://%s/docs/", cfg.Listen)
	}
	return srv
}

// requestTimeout bounds a request, including a full scan.
const requestTimeout = 2 * time.Minute

func scanLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1)
}

// Run serves the HTTP API until ctx is cancelled. db may be nil when the
// archive is disabled.
func Run(ctx context.Context, cfg *config.Config, scans *scan.Service, db *store.Store, openAPIData []byte) error {
	log := logging.For("server")

	if db != nil && cfg.Archive.Retention() > 0 {
		go runPurgeLoop(ctx, db, cfg.Archive.Retention(), cfg.Archive.PurgeInterval)
		log.Infof("Retention: %d days, purge interval: %s", cfg.Archive.RetentionDays, cfg.Archive.PurgeInterval)
	}

	if cfg.Server.ScanInterval > 0 {
		go daemon.Run(ctx, scans, cfg.Server.ScanInterval)
	}

	srv := NewHTTPServer(cfg.Server, NewHandler(scans, db), openAPIData)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()
	log.Infof("Advisor HTTP API listening on %s", cfg.Server.Listen)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutting down...")
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(stopCtx)
	}
}

// Purger deletes archived reports older than a cutoff.
type Purger interface {
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

func runPurgeLoop(ctx context.Context, db Purger, retention, interval time.Duration) {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logging.For("purge")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := db.Purge(ctx, retention)
			if err != nil {
				log.WithError(err).Error("purge failed")
			} else if n > 0 {
				log.Infof("Purged %d reports older than %s", n, retention)
			}
		}
	}
}
