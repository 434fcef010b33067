package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose"
	r "github.com/redis/go-redis/v9"

	"github.com/you/editalscan/internal/checkout"
	"github.com/you/editalscan/internal/config"
	"github.com/you/editalscan/internal/gateway"
	"github.com/you/editalscan/internal/intake"
	"github.com/you/editalscan/internal/logging"
	"github.com/you/editalscan/internal/paywall"
	"github.com/you/editalscan/internal/queue"
	"github.com/you/editalscan/internal/server"
	"github.com/you/editalscan/internal/storage"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar().Named("api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runMigrations(cfg); err != nil {
		sugar.Fatalw("migrations failed", "error", err)
	}

	db, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		sugar.Fatalw("postgres connect failed", "error", err)
	}
	store := storage.NewPostgres(db)
	defer store.Close()

	rdb := r.NewClient(&r.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	q := queue.New(rdb)

	in := intake.New(store, q, cfg.TokenTTL, logger)
	gw := gateway.New(store)
	gate := paywall.NewGate(store)
	co := checkout.New(store, cfg.CheckoutBaseURL, logger)

	h := server.NewHandlers(in, gw, gate, co, logger)
	srv := &http.Server{Addr: cfg.APIAddr, Handler: server.NewRouter(h, logger)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	sugar.Infow("listening", "addr", cfg.APIAddr, "env", cfg.AppEnv)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		sugar.Fatalw("server failed", "error", err)
	}
}

func runMigrations(cfg config.Config) error {
	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.Up(db, cfg.MigrationsDir)
}
