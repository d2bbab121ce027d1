package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteVerdictRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, found, err := s.GetVerdict(ctx, "missing-key")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.PutVerdict(ctx, "k1", `{"results":[2]}`))

	v, found, err := s.GetVerdict(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"results":[2]}`, v)
}

func TestSQLiteVerdictUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutVerdict(ctx, "k1", "first"))
	require.NoError(t, s.PutVerdict(ctx, "k1", "second"))

	v, found, err := s.GetVerdict(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "second", v)

	stats, err := s.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Entries)
}

func TestSQLiteCacheStatsAndClear(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	stats, err := s.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)

	require.NoError(t, s.PutVerdict(ctx, "a", "1"))
	require.NoError(t, s.PutVerdict(ctx, "b", "2"))

	stats, err = s.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.False(t, stats.Oldest.IsZero())
	assert.False(t, stats.Newest.Before(stats.Oldest))

	require.NoError(t, s.ClearVerdicts(ctx))

	stats, err = s.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Entries)
}

func TestSQLiteRunLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "alnoor")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Equal(t, "alnoor", run.Competitor)

	summary := &Summary{Items: 120, Matched: 95, Escalated: 30, NeedsReview: 12, Missing: 8}
	require.NoError(t, s.FinishRun(ctx, run.ID, RunStatusCompleted, summary))
}

func TestSQLiteFinishRunUnknownID(t *testing.T) {
	s := newTestStore(t)
	err := s.FinishRun(context.Background(), "no-such-run", RunStatusCompleted, nil)
	assert.Error(t, err)
}

func TestMemoryStoreVerdicts(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	_, found, err := s.GetVerdict(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.PutVerdict(ctx, "k", "v"))
	v, found, err := s.GetVerdict(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)

	require.NoError(t, s.ClearVerdicts(ctx))
	_, found, _ = s.GetVerdict(ctx, "k")
	assert.False(t, found)
}

func TestMemoryStoreRuns(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	run, err := s.CreateRun(ctx, "comp")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(ctx, run.ID, RunStatusFailed, nil))
	assert.Error(t, s.FinishRun(ctx, "missing", RunStatusCompleted, nil))
}

// Both implementations satisfy the interface.
var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
