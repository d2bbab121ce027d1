// Package store persists arbiter verdicts and analysis run records.
package store

import (
	"context"
	"time"
)

// RunStatus tracks the lifecycle of an analysis run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one analysis invocation against a competitor catalog.
type Run struct {
	ID         string    `json:"id"`
	Competitor string    `json:"competitor"`
	Status     RunStatus `json:"status"`
	Summary    *Summary  `json:"summary,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Summary captures headline counts for a completed run.
type Summary struct {
	Items       int `json:"items"`
	Matched     int `json:"matched"`
	Escalated   int `json:"escalated"`
	NeedsReview int `json:"needs_review"`
	Missing     int `json:"missing"`
}

// CacheStats reports on the verdict cache.
type CacheStats struct {
	Entries int       `json:"entries"`
	Oldest  time.Time `json:"oldest,omitempty"`
	Newest  time.Time `json:"newest,omitempty"`
}

// Store is the persistence interface. Verdict lookups degrade gracefully:
// a missing key is (value, found=false, nil), not an error.
type Store interface {
	Migrate(ctx context.Context) error
	Close() error

	GetVerdict(ctx context.Context, key string) (string, bool, error)
	PutVerdict(ctx context.Context, key, verdict string) error
	CacheStats(ctx context.Context) (CacheStats, error)
	ClearVerdicts(ctx context.Context) error

	CreateRun(ctx context.Context, competitor string) (*Run, error)
	FinishRun(ctx context.Context, runID string, status RunStatus, summary *Summary) error
}
