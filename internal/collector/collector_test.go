package collector

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
)

type fakeSource struct {
	fail     map[string]error
	block    map[string]bool
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeSource) enter(ctx context.Context, name string) error {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		cur := f.maxSeen.Load()
		if n <= cur || f.maxSeen.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	if f.block[name] {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.fail[name]
}

func (f *fakeSource) CPU(ctx context.Context) (CPUInfo, error) {
	if err := f.enter(ctx, QueryCPU); err != nil {
		return CPUInfo{}, err
	}
	return CPUInfo{Name: "AMD Ryzen 7 7800X3D", Manufacturer: "AuthenticAMD", Cores: 8, Threads: 16}, nil
}

func (f *fakeSource) GPU(ctx context.Context) (GPUInfo, error) {
	if err := f.enter(ctx, QueryGPU); err != nil {
		return GPUInfo{}, err
	}
	return GPUInfo{Name: "NVIDIA GeForce RTX 4070", Manufacturer: "NVIDIA", DriverVersion: "566.36", DriverDate: "2024-12-05"}, nil
}

func (f *fakeSource) MemoryGB(ctx context.Context) (int64, error) {
	if err := f.enter(ctx, QueryMemory); err != nil {
		return 0, err
	}
	return 32, nil
}

func (f *fakeSource) Drives(ctx context.Context) ([]Drive, error) {
	if err := f.enter(ctx, QueryStorage); err != nil {
		return nil, err
	}
	return []Drive{{Name: "Samsung SSD 990 PRO", MediaType: MediaSSD, CapacityGB: 931, FreeSpaceGB: 400, DriveLetter: "C:"}}, nil
}

func (f *fakeSource) Board(ctx context.Context) (MotherboardInfo, BIOSInfo, error) {
	if err := f.enter(ctx, QueryBoard); err != nil {
		return MotherboardInfo{}, BIOSInfo{}, err
	}
	return MotherboardInfo{Manufacturer: "ASUSTeK COMPUTER INC.", Model: "ROG STRIX B650E-F"}, BIOSInfo{Version: "3024", Date: "2024-08-01"}, nil
}

func (f *fakeSource) OS(ctx context.Context) (OSInfo, error) {
	if err := f.enter(ctx, QueryOS); err != nil {
		return OSInfo{}, err
	}
	return OSInfo{Version: "Microsoft Windows 11 Pro", Build: "26100"}, nil
}

var fixedTime = time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

func newTestCollector(src Source, opts ...Option) *Collector {
	base := []Option{
		WithSource(src),
		WithClock(func() time.Time { return fixedTime }),
		WithHostname(func() (string, error) { return "gaming-rig", nil }),
	}
	return New(append(base, opts...)...)
}

func TestCollectAllQueries(t *testing.T) {
	c := newTestCollector(&fakeSource{})

	inv, warnings, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Empty(t, warnings)

	assert.Equal(t, fixedTime, inv.ScannedAt)
	assert.Equal(t, "gaming-rig", inv.Hostname)
	assert.Equal(t, "AMD Ryzen 7 7800X3D", inv.CPU.Name)
	assert.Equal(t, 16, inv.CPU.Threads)
	assert.Equal(t, "566.36", inv.GPU.DriverVersion)
	assert.Equal(t, int64(32), inv.RAMTotalGB)
	require.Len(t, inv.Drives, 1)
	assert.Equal(t, MediaSSD, inv.Drives[0].MediaType)
	assert.Equal(t, "ROG STRIX B650E-F", inv.Motherboard.Model)
	assert.Equal(t, "3024", inv.BIOS.Version)
	assert.Equal(t, "26100", inv.OS.Build)
}

func TestCollectSequential(t *testing.T) {
	src := &fakeSource{}
	c := newTestCollector(src, WithSequential(true))

	_, _, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), src.maxSeen.Load())
}

func TestCollectPartialFailure(t *testing.T) {
	src := &fakeSource{fail: map[string]error{
		QueryGPU:   errors.New("access denied"),
		QueryBoard: errors.New("no smbios"),
	}}
	c := newTestCollector(src)

	inv, warnings, err := c.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpu: access denied", "board: no smbios"}, warnings)
	assert.Empty(t, inv.GPU.Name)
	assert.Empty(t, inv.Motherboard.Manufacturer)
	assert.Equal(t, "AMD Ryzen 7 7800X3D", inv.CPU.Name)
}

func TestCollectAllFail(t *testing.T) {
	boom := errors.New("wmi unavailable")
	fail := map[string]error{}
	for _, q := range allQueries {
		fail[q] = boom
	}
	c := newTestCollector(&fakeSource{fail: fail})

	inv, _, err := c.Collect(context.Background())
	require.Error(t, err)
	assert.Nil(t, inv)
	assert.Equal(t, apperrors.ErrCodeUnavailable, apperrors.CodeOf(err))
	assert.ErrorIs(t, err, boom)
}

func TestCollectQueryTimeout(t *testing.T) {
	src := &fakeSource{block: map[string]bool{QueryStorage: true}}
	c := newTestCollector(src, WithQueryTimeout(20*time.Millisecond))

	inv, warnings, err := c.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.True(t, strings.HasPrefix(warnings[0], "storage: "))
	assert.Contains(t, warnings[0], "query timed out")
	assert.Empty(t, inv.Drives)
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := newTestCollector(&fakeSource{}).Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollectObserver(t *testing.T) {
	var (
		mu   sync.Mutex
		seen = map[string]error{}
	)
	obs := func(q string, _ time.Duration, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen[q] = err
	}
	src := &fakeSource{fail: map[string]error{QueryOS: errors.New("denied")}}

	_, _, err := newTestCollector(src, WithObserver(obs)).Collect(context.Background())
	require.NoError(t, err)

	assert.Len(t, seen, len(allQueries))
	assert.Error(t, seen[QueryOS])
	assert.NoError(t, seen[QueryCPU])
}

func TestWithQueryTimeoutIgnoresNonPositive(t *testing.T) {
	c := New(WithSource(&fakeSource{}), WithQueryTimeout(0))
	assert.Equal(t, DefaultQueryTimeout, c.timeout)
}
