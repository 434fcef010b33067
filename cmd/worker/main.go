package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	r "github.com/redis/go-redis/v9"

	"github.com/you/editalscan/internal/analysis"
	"github.com/you/editalscan/internal/config"
	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/logging"
	"github.com/you/editalscan/internal/queue"
	"github.com/you/editalscan/internal/storage"
	"github.com/you/editalscan/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar().Named("worker-main")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		sugar.Fatalw("postgres connect failed", "error", err)
	}
	store := storage.NewPostgres(db)
	defer store.Close()

	rdb := r.NewClient(&r.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	q := queue.New(rdb)

	w := worker.New(store, analysis.Stub{}, logger)
	rec := worker.NewReconciler(store, q, cfg.ReceivedGrace, cfg.ProcessingTimeout, logger)

	go func() {
		tick := time.NewTicker(cfg.SweepInterval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				if err := rec.Sweep(ctx); err != nil {
					sugar.Warnw("sweep failed", "error", err)
				}
			}
		}
	}()

	sugar.Infow("consuming", "env", cfg.AppEnv)
	for ctx.Err() == nil {
		id, err := q.Dequeue(ctx, cfg.DequeueBlock)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			sugar.Warnw("dequeue failed", "error", err)
			time.Sleep(time.Second)
			continue
		}
		if id == "" {
			continue
		}

		if err := w.Process(ctx, id); err != nil && !errors.Is(err, domain.ErrAlreadyProcessed) {
			sugar.Errorw("process failed", "job_id", id, "error", err)
		}
	}
	sugar.Info("shutting down")
}
