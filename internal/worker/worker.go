package worker

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/you/editalscan/internal/analysis"
	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/report"
	"github.com/you/editalscan/internal/storage"
)

// Worker drives a job through its one-shot lifecycle:
// received -> processing -> done | error. Terminal states never transition
// again; a retry means a new job.
type Worker struct {
	store    storage.Store
	analyzer analysis.Analyzer
	logger   *zap.SugaredLogger
}

func New(store storage.Store, analyzer analysis.Analyzer, logger *zap.Logger) *Worker {
	return &Worker{
		store:    store,
		analyzer: analyzer,
		logger:   logger.Sugar().Named("worker"),
	}
}

// Process runs the analysis for one job id. Invoking it on a terminal job is
// a no-op that returns ErrAlreadyProcessed and leaves the record untouched.
func (w *Worker) Process(ctx context.Context, jobID string) error {
	job, err := w.store.GetJob(ctx, jobID)
	if err != nil {
		return errors.Wrapf(err, "load job %s", jobID)
	}
	if job.Status.Terminal() {
		w.logger.Infow("job already processed", "job_id", jobID, "status", job.Status)
		return domain.ErrAlreadyProcessed
	}

	started, err := w.store.StartProcessing(ctx, jobID, time.Now().UTC())
	if err != nil {
		return errors.Wrapf(err, "start job %s", jobID)
	}
	if !started {
		// Lost the claim to another worker between read and update.
		w.logger.Infow("job claimed elsewhere", "job_id", jobID)
		return domain.ErrAlreadyProcessed
	}

	result, err := w.analyzer.Analyze(ctx, job.InputRef)
	if err != nil {
		return w.fail(ctx, jobID, domain.NewAnalysisError(err))
	}

	artifact := report.Render(result)
	if err := w.store.CompleteJob(ctx, jobID, result, artifact, time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "complete job %s", jobID)
	}

	w.logger.Infow("job done", "job_id", jobID, "score", result.ViabilityScore)
	return nil
}

func (w *Worker) fail(ctx context.Context, jobID string, cause error) error {
	if err := w.store.FailJob(ctx, jobID, cause.Error(), time.Now().UTC()); err != nil {
		return errors.Wrapf(err, "record failure for job %s", jobID)
	}
	w.logger.Warnw("job failed", "job_id", jobID, "error", cause)
	return cause
}
