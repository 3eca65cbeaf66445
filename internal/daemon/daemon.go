// Package daemon keeps the latest report fresh by rescanning on an interval
// while the API is being served.
package daemon

import (
	"context"
	"math"
	"time"

	"github.com/go-tangra/go-tangra-advisor/internal/logging"
	"github.com/go-tangra/go-tangra-advisor/internal/report"
)

// Scanner runs one scan.
type Scanner interface {
	Run(ctx context.Context) (*report.Report, error)
}

const (
	baseBackoff = 5 * time.Second
	maxBackoff  = 5 * time.Minute
)

// Run scans immediately and then every interval until ctx is cancelled.
// Failed scans are retried with exponential backoff, never waiting longer
// than interval.
func Run(ctx context.Context, s Scanner, interval time.Duration) {
	log := logging.For("daemon")
	log.WithField("interval", interval).Info("periodic scanning enabled")

	failures := 0
	for {
		wait := interval
		if _, err := s.Run(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			failures++
			wait = min(calcBackoff(failures), interval)
			log.WithError(err).Warnf("scan failed (attempt %d); retrying in %s", failures, wait)
		} else {
			failures = 0
		}

		select {
		case <-ctx.Done():
			log.Info("periodic scanning stopped")
			return
		case <-time.After(wait):
		}
	}
}

func calcBackoff(attempt int) time.Duration {
	d := baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}
