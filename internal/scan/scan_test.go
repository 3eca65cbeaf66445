package scan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-advisor/internal/advisor"
	"github.com/go-tangra/go-tangra-advisor/internal/catalog"
	"github.com/go-tangra/go-tangra-advisor/internal/collector"
	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
	"github.com/go-tangra/go-tangra-advisor/internal/report"
)

type fakeCollector struct {
	inv      *collector.Inventory
	warnings []string
	err      error
	calls    int
}

func (f *fakeCollector) Collect(context.Context) (*collector.Inventory, []string, error) {
	f.calls++
	return f.inv, f.warnings, f.err
}

type fakeArchive struct {
	mu    sync.Mutex
	saved []*report.Report
	err   error
}

func (f *fakeArchive) Archive(_ context.Context, r *report.Report) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, r)
	return f.err
}

func testBuilder(t *testing.T) *advisor.Builder {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	return advisor.New(advisor.WithCatalog(cat), advisor.WithClock(func() time.Time {
		return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	}))
}

func testInventory() *collector.Inventory {
	return &collector.Inventory{
		Hostname: "gaming-rig",
		GPU:      collector.GPUInfo{Name: "AMD Radeon RX 7800 XT", DriverVersion: "23.1.1"},
		CPU:      collector.CPUInfo{Name: "AMD Ryzen 5 7600", Manufacturer: "AuthenticAMD", Cores: 6, Threads: 12},
	}
}

func TestRun(t *testing.T) {
	fc := &fakeCollector{inv: testInventory(), warnings: []string{"os: denied"}}
	arch := &fakeArchive{}
	svc := New(fc, testBuilder(t), WithArchive(arch))

	_, ok := svc.Latest()
	assert.False(t, ok)

	before := testutil.ToFloat64(scanTotal.WithLabelValues("success"))
	r, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "gaming-rig", r.Hostname)
	assert.Equal(t, []string{"os: denied"}, r.Warnings)
	assert.NotEmpty(t, r.Updates)
	assert.Equal(t, before+1, testutil.ToFloat64(scanTotal.WithLabelValues("success")))

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Same(t, r, latest)

	require.Len(t, arch.saved, 1)
	assert.Same(t, r, arch.saved[0])
}

func TestRunFailureKeepsPrevious(t *testing.T) {
	fc := &fakeCollector{inv: testInventory()}
	svc := New(fc, testBuilder(t))

	first, err := svc.Run(context.Background())
	require.NoError(t, err)

	fc.err = apperrors.New(apperrors.ErrCodeUnavailable, "inventory source unavailable")
	fc.inv = nil
	before := testutil.ToFloat64(scanTotal.WithLabelValues("error"))

	_, err = svc.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.CodeOf(err))
	assert.Equal(t, before+1, testutil.ToFloat64(scanTotal.WithLabelValues("error")))

	latest, ok := svc.Latest()
	require.True(t, ok)
	assert.Same(t, first, latest)
}

func TestRunArchiveFailureIsNotFatal(t *testing.T) {
	arch := &fakeArchive{err: errors.New("disk full")}
	svc := New(&fakeCollector{inv: testInventory()}, testBuilder(t), WithArchive(arch))

	r, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, r)
	assert.Len(t, arch.saved, 1)
}

func TestRecordCounts(t *testing.T) {
	svc := New(&fakeCollector{inv: testInventory()}, testBuilder(t))
	r, err := svc.Run(context.Background())
	require.NoError(t, err)

	var high int
	for _, rec := range r.Updates {
		if rec.Priority.String() == "High" {
			high++
		}
	}
	assert.Equal(t, float64(high), testutil.ToFloat64(recommendationCount.WithLabelValues("updates", "High")))
}

func TestObserveQuery(t *testing.T) {
	ObserveQuery(collector.QueryGPU, 10*time.Millisecond, nil)
	ObserveQuery(collector.QueryGPU, 10*time.Millisecond, errors.New("denied"))

	assert.GreaterOrEqual(t, testutil.CollectAndCount(queryDuration), 2)
}
