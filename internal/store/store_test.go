package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-tangra/go-tangra-advisor/internal/advisor"
	"github.com/go-tangra/go-tangra-advisor/internal/collector"
	apperrors "github.com/go-tangra/go-tangra-advisor/internal/errors"
	"github.com/go-tangra/go-tangra-advisor/internal/report"
	"github.com/go-tangra/go-tangra-advisor/internal/version"
)

var now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "advisor.db"))
	require.NoError(t, err)
	s.now = func() time.Time { return now }
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testReport(host string, scannedAt time.Time) *report.Report {
	return &report.Report{
		ID:        uuid.NewString(),
		Hostname:  host,
		ScannedAt: scannedAt,
		Inventory: &collector.Inventory{Hostname: host, ScannedAt: scannedAt, RAMTotalGB: 16},
		Updates: []advisor.Recommendation{
			{Category: advisor.CategoryWindows, Component: "Windows", Priority: version.High},
			{Category: advisor.CategoryMotherboard, Component: "BIOS/UEFI Update", Priority: version.Low},
		},
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := testReport("gaming-rig", now.Add(-time.Hour))

	require.NoError(t, s.Archive(ctx, r))

	rec, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "gaming-rig", rec.Hostname)
	assert.Equal(t, 2, rec.UpdateCount)
	assert.Equal(t, "High", rec.TopPriority)
	assert.Equal(t, now, rec.StoredAt)
	assert.True(t, rec.ScannedAt.Equal(r.ScannedAt))

	got, err := s.Report(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, got.ID)
	assert.Equal(t, int64(16), got.Inventory.RAMTotalGB)
	assert.Equal(t, version.High, got.Updates[0].Priority)
}

func TestArchiveDuplicateID(t *testing.T) {
	s := newTestStore(t)
	r := testReport("gaming-rig", now)

	require.NoError(t, s.Archive(context.Background(), r))
	assert.Error(t, s.Archive(context.Background(), r))
}

func TestGetMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))

	_, err = s.Report(context.Background(), "nope")
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	r := testReport("gaming-rig", now)
	require.NoError(t, s.Archive(ctx, r))

	require.NoError(t, s.Delete(ctx, r.ID))
	err := s.Delete(ctx, r.ID)
	assert.Equal(t, apperrors.ErrCodeNotFound, apperrors.CodeOf(err))
}

func TestList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := range 5 {
		require.NoError(t, s.Archive(ctx, testReport("rig-a", now.Add(-time.Duration(i)*time.Hour))))
	}
	require.NoError(t, s.Archive(ctx, testReport("rig-b", now)))

	all, total, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 6, total)
	assert.Len(t, all, 6)
	assert.Empty(t, all[0].ReportJSON)

	page, total, err := s.List(ctx, ListFilter{Hostname: "rig-a", PageSize: 2, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, page, 2)
	assert.True(t, page[0].ScannedAt.Equal(now.Add(-2*time.Hour)))
	assert.True(t, page[1].ScannedAt.Equal(now.Add(-3*time.Hour)))

	after := now.Add(-90 * time.Minute)
	recent, total, err := s.List(ctx, ListFilter{Hostname: "rig-a", ScannedAfter: &after})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, recent, 2)
}

func TestPurge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Archive(ctx, testReport("rig", now.Add(-48*time.Hour))))
	require.NoError(t, s.Archive(ctx, testReport("rig", now.Add(-72*time.Hour))))
	keep := testReport("rig", now.Add(-time.Hour))
	require.NoError(t, s.Archive(ctx, keep))

	n, err := s.Purge(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, total, err := s.List(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	_, err = s.Get(ctx, keep.ID)
	assert.NoError(t, err)
}
