package gateway_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/gateway"
	"github.com/you/editalscan/internal/storage"
)

// countingStore counts job reads so tests can assert polling stopped.
type countingStore struct {
	*storage.Memory
	reads atomic.Int64
}

func (s *countingStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	s.reads.Add(1)
	return s.Memory.GetJob(ctx, id)
}

const pollInterval = 10 * time.Millisecond

func TestWatchPollsUntilDone(t *testing.T) {
	store := &countingStore{Memory: storage.NewMemory()}
	job := seedJob(t, store.Memory, domain.StatusProcessing, time.Now().Add(time.Hour))

	p := gateway.NewPoller(gateway.New(store), pollInterval, zap.NewNop())
	updates := p.Watch(context.Background(), job.ID, testToken)

	first := <-updates
	require.NoError(t, first.Err)
	assert.Equal(t, domain.StatusProcessing, first.Snapshot.Status)

	// Still waiting: at least one more poll happens after the interval.
	second := <-updates
	require.NoError(t, second.Err)
	assert.Equal(t, domain.StatusProcessing, second.Snapshot.Status)

	result := domain.AnalysisResult{Risks: []string{"r"}, Opportunities: []string{"o"}, ViabilityScore: 6.0}
	require.NoError(t, store.CompleteJob(context.Background(), job.ID, result, "# relatório", time.Now().UTC()))

	var last gateway.Update
	for u := range updates {
		require.NoError(t, u.Err)
		last = u
	}
	require.NotNil(t, last.Snapshot)
	assert.Equal(t, domain.StatusDone, last.Snapshot.Status)
	assert.Equal(t, "# relatório", last.Snapshot.Artifact)

	// Terminal render stops polling for good: no reads within N intervals.
	settled := store.reads.Load()
	time.Sleep(5 * pollInterval)
	assert.Equal(t, settled, store.reads.Load())
}

func TestWatchStopsOnAccessFailure(t *testing.T) {
	store := &countingStore{Memory: storage.NewMemory()}
	job := seedJob(t, store.Memory, domain.StatusProcessing, time.Now().Add(time.Hour))

	p := gateway.NewPoller(gateway.New(store), pollInterval, zap.NewNop())
	updates := p.Watch(context.Background(), job.ID, "wrong-token")

	u := <-updates
	assert.ErrorIs(t, u.Err, domain.ErrAccessDenied)

	_, open := <-updates
	assert.False(t, open, "channel must close after denial")

	settled := store.reads.Load()
	time.Sleep(5 * pollInterval)
	assert.Equal(t, settled, store.reads.Load())
}

func TestWatchStopsOnExpiry(t *testing.T) {
	store := &countingStore{Memory: storage.NewMemory()}
	job := seedJob(t, store.Memory, domain.StatusProcessing, time.Now().Add(-time.Minute))

	p := gateway.NewPoller(gateway.New(store), pollInterval, zap.NewNop())
	updates := p.Watch(context.Background(), job.ID, testToken)

	u := <-updates
	assert.ErrorIs(t, u.Err, domain.ErrTokenExpired)
	_, open := <-updates
	assert.False(t, open)
}

func TestWatchStopsOnCancel(t *testing.T) {
	store := &countingStore{Memory: storage.NewMemory()}
	job := seedJob(t, store.Memory, domain.StatusProcessing, time.Now().Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	p := gateway.NewPoller(gateway.New(store), pollInterval, zap.NewNop())
	updates := p.Watch(ctx, job.ID, testToken)

	first := <-updates
	require.NoError(t, first.Err)

	cancel()
	for range updates {
		// drain whatever was in flight before the cancel landed
	}

	settled := store.reads.Load()
	time.Sleep(5 * pollInterval)
	assert.Equal(t, settled, store.reads.Load(), "no polls after teardown")
}
