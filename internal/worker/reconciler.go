package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/queue"
	"github.com/you/editalscan/internal/storage"
)

// sweepLockKey guards the periodic sweep so only one worker instance runs it.
const sweepLockKey = 7341

const sweepBatch = 200

// Reconciler repairs jobs the happy path dropped: received jobs whose
// enqueue was lost get re-enqueued, and processing jobs whose worker died
// get failed out. It never touches terminal jobs.
type Reconciler struct {
	store             storage.Store
	queue             queue.Queue
	receivedGrace     time.Duration
	processingTimeout time.Duration
	logger            *zap.SugaredLogger
}

func NewReconciler(store storage.Store, q queue.Queue, receivedGrace, processingTimeout time.Duration, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		store:             store,
		queue:             q,
		receivedGrace:     receivedGrace,
		processingTimeout: processingTimeout,
		logger:            logger.Sugar().Named("reconciler"),
	}
}

func (r *Reconciler) Sweep(ctx context.Context) error {
	ok, err := r.store.TryAdvisoryLock(ctx, sweepLockKey)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	now := time.Now().UTC()

	stuck, err := r.store.ListStale(ctx, domain.StatusReceived, now.Add(-r.receivedGrace), sweepBatch)
	if err != nil {
		return err
	}
	for _, id := range stuck {
		if err := r.queue.Enqueue(ctx, id); err != nil {
			r.logger.Warnw("re-enqueue failed", "job_id", id, "error", err)
			continue
		}
		r.logger.Infow("re-enqueued stuck job", "job_id", id)
	}

	stale, err := r.store.ListStale(ctx, domain.StatusProcessing, now.Add(-r.processingTimeout), sweepBatch)
	if err != nil {
		return err
	}
	for _, id := range stale {
		if err := r.store.FailJob(ctx, id, "processing interrupted: worker did not finish in time", now); err != nil {
			r.logger.Warnw("fail-out failed", "job_id", id, "error", err)
			continue
		}
		r.logger.Warnw("failed out stale job", "job_id", id)
	}

	return nil
}
