// Package scan runs inventory collection and recommendation building as one
// operation and keeps the most recent report.
package scan

import (
	"context"
	"sync"
	"time"

	"github.com/go-tangra/go-tangra-advisor/internal/advisor"
	"github.com/go-tangra/go-tangra-advisor/internal/collector"
	"github.com/go-tangra/go-tangra-advisor/internal/logging"
	"github.com/go-tangra/go-tangra-advisor/internal/report"
	"github.com/go-tangra/go-tangra-advisor/internal/version"
)

// Collector produces inventory snapshots.
type Collector interface {
	Collect(ctx context.Context) (*collector.Inventory, []string, error)
}

// Archiver persists finished reports.
type Archiver interface {
	Archive(ctx context.Context, r *report.Report) error
}

// Service runs scans. Scans are serialized; concurrent callers wait.
type Service struct {
	collector Collector
	builder   *advisor.Builder
	archive   Archiver

	mu     sync.Mutex
	latest *report.Report
}

// Option configures a Service.
type Option func(*Service)

// WithArchive stores every successful report.
func WithArchive(a Archiver) Option {
	return func(s *Service) { s.archive = a }
}

// New creates a Service.
func New(c Collector, b *advisor.Builder, opts ...Option) *Service {
	s := &Service{collector: c, builder: b}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Builder returns the recommendation builder in use.
func (s *Service) Builder() *advisor.Builder { return s.builder }

// Run performs one scan. A scan-level failure is returned as a single error
// and leaves the previous report in place.
func (s *Service) Run(ctx context.Context) (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := logging.For("scan")
	start := time.Now()

	inv, warnings, err := s.collector.Collect(ctx)
	scanDuration.Observe(time.Since(start).Seconds())
	scanTotal.WithLabelValues(status(err)).Inc()
	if err != nil {
		log.WithError(err).Error("scan failed")
		return nil, err
	}

	r := report.New(inv, s.builder, warnings)
	recordCounts(r)

	if s.archive != nil {
		if err := s.archive.Archive(ctx, r); err != nil {
			log.WithError(err).WithField("report", r.ID).Warn("archive report")
		}
	}

	log.WithField("report", r.ID).
		WithField("components", len(r.Components)).
		WithField("updates", len(r.Updates)).
		WithField("warnings", len(warnings)).
		WithField("elapsed", time.Since(start).Round(time.Millisecond)).
		Info("scan complete")

	s.latest = r
	return r, nil
}

// Latest returns the most recent successful report, if any.
func (s *Service) Latest() (*report.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.latest != nil
}

func recordCounts(r *report.Report) {
	count := func(view string, recs []advisor.Recommendation) {
		for _, p := range []version.Priority{version.Critical, version.High, version.Medium, version.Low, version.UpToDate} {
			recommendationCount.WithLabelValues(view, p.String()).Set(0)
		}
		for _, rec := range recs {
			recommendationCount.WithLabelValues(view, rec.Priority.String()).Inc()
		}
	}
	count("components", r.Components)
	count("updates", r.Updates)
}
