package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// MemoryStore is an in-memory Store for tests and cache-disabled runs.
type MemoryStore struct {
	mu       sync.RWMutex
	verdicts map[string]memVerdict
	runs     map[string]*Run
}

type memVerdict struct {
	verdict   string
	createdAt time.Time
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		verdicts: make(map[string]memVerdict),
		runs:     make(map[string]*Run),
	}
}

func (s *MemoryStore) Migrate(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) GetVerdict(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.verdicts[key]
	return v.verdict, ok, nil
}

func (s *MemoryStore) PutVerdict(ctx context.Context, key, verdict string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts[key] = memVerdict{verdict: verdict, createdAt: time.Now().UTC()}
	return nil
}

func (s *MemoryStore) CacheStats(ctx context.Context) (CacheStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := CacheStats{Entries: len(s.verdicts)}
	for _, v := range s.verdicts {
		if stats.Oldest.IsZero() || v.createdAt.Before(stats.Oldest) {
			stats.Oldest = v.createdAt
		}
		if v.createdAt.After(stats.Newest) {
			stats.Newest = v.createdAt
		}
	}
	return stats, nil
}

func (s *MemoryStore) ClearVerdicts(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verdicts = make(map[string]memVerdict)
	return nil
}

func (s *MemoryStore) CreateRun(ctx context.Context, competitor string) (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	run := &Run{
		ID:         uuid.New().String(),
		Competitor: competitor,
		Status:     RunStatusRunning,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.runs[run.ID] = run
	return run, nil
}

func (s *MemoryStore) FinishRun(ctx context.Context, runID string, status RunStatus, summary *Summary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.runs[runID]
	if !ok {
		return eris.Errorf("memory: run %s not found", runID)
	}
	run.Status = status
	run.Summary = summary
	run.UpdatedAt = time.Now().UTC()
	return nil
}
