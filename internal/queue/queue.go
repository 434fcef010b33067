package queue

import (
	"context"
	"time"
)

// Queue carries job ids from the api to the worker. Ordering is FIFO per
// instance; Postgres remains authoritative for job state.
type Queue interface {
	Enqueue(ctx context.Context, jobID string) error
	// Dequeue blocks up to the given duration and returns "" on timeout.
	Dequeue(ctx context.Context, block time.Duration) (string, error)
}
