package collector

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
	"github.com/go-tangra/go-tangra-advisor/internal/logging"
)

// DefaultQueryTimeout bounds each inventory sub-query.
const DefaultQueryTimeout = 10 * time.Second

// Query names, used for logging and metrics.
const (
	QueryCPU     = "cpu"
	QueryGPU     = "gpu"
	QueryMemory  = "memory"
	QueryStorage = "storage"
	QueryBoard   = "board"
	QueryOS      = "os"
)

// Observer is notified after every sub-query.
type Observer func(query string, elapsed time.Duration, err error)

// Collector assembles an Inventory from a Source.
type Collector struct {
	source     Source
	timeout    time.Duration
	sequential bool
	now        func() time.Time
	hostname   func() (string, error)
	observe    Observer
}

// Option configures a Collector.
type Option func(*Collector)

// WithSource replaces the platform source.
func WithSource(s Source) Option {
	return func(c *Collector) { c.source = s }
}

// WithQueryTimeout sets the per-query timeout. Non-positive values keep
// the default.
func WithQueryTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithSequential runs sub-queries one at a time instead of concurrently.
func WithSequential(seq bool) Option {
	return func(c *Collector) { c.sequential = seq }
}

// WithClock sets the clock used for ScannedAt.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// WithHostname overrides hostname lookup.
func WithHostname(fn func() (string, error)) Option {
	return func(c *Collector) { c.hostname = fn }
}

// WithObserver registers a per-query callback.
func WithObserver(o Observer) Option {
	return func(c *Collector) { c.observe = o }
}

// New creates a Collector backed by the platform source unless overridden.
func New(opts ...Option) *Collector {
	c := &Collector{
		timeout:  DefaultQueryTimeout,
		now:      time.Now,
		hostname: os.Hostname,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.source == nil {
		c.source = NewPlatformSource()
	}
	return c
}

// Collect runs every sub-query and returns the assembled snapshot. Each
// sub-query owns a disjoint set of Inventory fields, so they run in parallel
// without locking the snapshot. A failed sub-query leaves its fields empty
// and is listed in the returned Warnings; only when all of them fail does
// Collect return an UNAVAILABLE error.
func (c *Collector) Collect(ctx context.Context) (*Inventory, []string, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	log := logging.For("collector")
	hostname, _ := c.hostname()
	inv := &Inventory{
		ScannedAt: c.now().UTC(),
		Hostname:  hostname,
	}

	var g errgroup.Group
	if c.sequential {
		g.SetLimit(1)
	}

	var (
		mu     sync.Mutex
		failed = map[string]error{}
	)
	run := func(name string, fn func(context.Context) error) {
		g.Go(func() error {
			start := time.Now()
			err := runWithTimeout(ctx, c.timeout, name, fn)
			if c.observe != nil {
				c.observe(name, time.Since(start), err)
			}
			if err != nil {
				log.WithField("query", name).WithError(err).Warn("inventory query failed")
				mu.Lock()
				failed[name] = err
				mu.Unlock()
			}
			return nil
		})
	}

	run(QueryCPU, func(ctx context.Context) (err error) {
		inv.CPU, err = c.source.CPU(ctx)
		return err
	})
	run(QueryGPU, func(ctx context.Context) (err error) {
		inv.GPU, err = c.source.GPU(ctx)
		return err
	})
	run(QueryMemory, func(ctx context.Context) (err error) {
		inv.RAMTotalGB, err = c.source.MemoryGB(ctx)
		return err
	})
	run(QueryStorage, func(ctx context.Context) (err error) {
		inv.Drives, err = c.source.Drives(ctx)
		return err
	})
	run(QueryBoard, func(ctx context.Context) (err error) {
		inv.Motherboard, inv.BIOS, err = c.source.Board(ctx)
		return err
	})
	run(QueryOS, func(ctx context.Context) (err error) {
		inv.OS, err = c.source.OS(ctx)
		return err
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var (
		warnings []string
		causes   []error
	)
	for _, q := range allQueries {
		if err, ok := failed[q]; ok {
			warnings = append(warnings, fmt.Sprintf("%s: %v", q, err))
			causes = append(causes, fmt.Errorf("%s: %w", q, err))
		}
	}
	if len(failed) == len(allQueries) {
		return nil, nil, apperrors.Wrap(apperrors.ErrCodeUnavailable, "inventory source unavailable", errors.Join(causes...))
	}

	log.WithField("host", inv.Hostname).WithField("failed_queries", len(failed)).Debug("inventory collected")
	return inv, warnings, nil
}

var allQueries = []string{QueryCPU, QueryGPU, QueryMemory, QueryStorage, QueryBoard, QueryOS}

// runWithTimeout runs fn under a per-query deadline. fn must return once its
// context is done; it writes the snapshot fields itself, so Collect always
// waits for it.
func runWithTimeout(ctx context.Context, timeout time.Duration, name string, fn func(context.Context) error) error {
	qctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := fn(qctx)
	if err != nil && qctx.Err() == context.DeadlineExceeded {
		return apperrors.WrapWithContext(apperrors.ErrCodeTimeout, "query timed out", err, map[string]any{"query": name})
	}
	return err
}
