package queue

import (
	"context"
	"time"
)

// MemoryQ is a channel-backed Queue for tests and single-process runs.
type MemoryQ struct{ ch chan string }

var _ Queue = (*MemoryQ)(nil)

func NewMemory(capacity int) *MemoryQ {
	return &MemoryQ{ch: make(chan string, capacity)}
}

func (q *MemoryQ) Enqueue(ctx context.Context, jobID string) error {
	select {
	case q.ch <- jobID:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *MemoryQ) Dequeue(ctx context.Context, block time.Duration) (string, error) {
	timer := time.NewTimer(block)
	defer timer.Stop()
	select {
	case id := <-q.ch:
		return id, nil
	case <-timer.C:
		return "", nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Len reports the number of queued ids; test hook only.
func (q *MemoryQ) Len() int { return len(q.ch) }
