package store

import (
	"context"
	"errors"
	"time"

	"github.com/stellarlinkco/openeval/internal/runner"
)

// ErrNotFound is returned when no experiment matches the query.
var ErrNotFound = errors.New("store: experiment not found")

// ExperimentWriter defines persistence for finished experiments.
type ExperimentWriter interface {
	SaveExperiment(ctx context.Context, exp *runner.ExperimentResult) error
}

// ExperimentReader defines read access to stored experiments.
type ExperimentReader interface {
	GetExperiment(ctx context.Context, id string) (*runner.ExperimentResult, error)
	GetLatestByName(ctx context.Context, name string) (*runner.ExperimentResult, error)
	ListExperiments(ctx context.Context, limit int) ([]*ExperimentSummary, error)
}

// Store defines persistence for experiments.
type Store interface {
	ExperimentWriter
	ExperimentReader
	Close() error
}

// ExperimentSummary is the listing row for an experiment, without the
// per-case payload.
type ExperimentSummary struct {
	ID           string                          `json:"id"`
	Name         string                          `json:"name"`
	CreatedAt    time.Time                       `json:"created_at"`
	Cases        int                             `json:"cases"`
	DurationMs   int64                           `json:"duration_ms"`
	TotalCostUSD float64                         `json:"total_cost_usd"`
	Summary      map[string]runner.ScorerSummary `json:"summary"`
}
