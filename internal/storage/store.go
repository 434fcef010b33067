package storage

import (
	"context"
	"time"

	"github.com/you/editalscan/internal/domain"
)

// Store is the persistence contract shared by the api and worker binaries.
// Postgres is the production implementation; Memory backs unit tests.
type Store interface {
	CreateJob(ctx context.Context, job *domain.Job) error
	GetJob(ctx context.Context, id string) (*domain.Job, error)

	// StartProcessing moves received -> processing. It returns false when
	// the job was not in received, which callers treat as already claimed.
	StartProcessing(ctx context.Context, id string, at time.Time) (bool, error)
	// CompleteJob moves processing -> done and attaches the result and the
	// rendered artifact. Fails on jobs that are not processing.
	CompleteJob(ctx context.Context, id string, result domain.AnalysisResult, artifact string, at time.Time) error
	// FailJob moves a non-terminal job to error with the given message.
	FailJob(ctx context.Context, id string, message string, at time.Time) error

	// ListStale returns ids of jobs sitting in the given status since before
	// the cutoff, oldest first.
	ListStale(ctx context.Context, status domain.Status, cutoff time.Time, limit int) ([]string, error)

	CreateEntitlement(ctx context.Context, e domain.Entitlement) error
	GetEntitlement(ctx context.Context, jobID string) (*domain.Entitlement, error)

	// TryAdvisoryLock takes a best-effort, session-scoped lock so only one
	// worker runs the reconciliation sweep at a time.
	TryAdvisoryLock(ctx context.Context, key int64) (bool, error)

	Close()
}
