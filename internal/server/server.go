package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/you/editalscan/internal/checkout"
	"github.com/you/editalscan/internal/gateway"
	"github.com/you/editalscan/internal/intake"
	"github.com/you/editalscan/internal/paywall"
)

type Handlers struct {
	intake   *intake.Service
	gateway  *gateway.Gateway
	gate     *paywall.Gate
	checkout *checkout.Service
	logger   *zap.SugaredLogger
}

func NewHandlers(in *intake.Service, gw *gateway.Gateway, gate *paywall.Gate, co *checkout.Service, logger *zap.Logger) *Handlers {
	return &Handlers{
		intake:   in,
		gateway:  gw,
		gate:     gate,
		checkout: co,
		logger:   logger.Sugar().Named("http"),
	}
}

func NewRouter(h *Handlers, logger *zap.Logger) chi.Router {
	rtr := chi.NewRouter()
	rtr.Use(middleware.RequestID)
	rtr.Use(middleware.RealIP)
	rtr.Use(requestLogger(logger))
	rtr.Use(middleware.Recoverer)

	rtr.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rtr.Route("/v1", func(rtr chi.Router) {
		rtr.Post("/submissions", h.CreateSubmission)
		rtr.Get("/reports/{id}", h.GetReport)
		rtr.Get("/plans", h.ListPlans)
		rtr.Post("/checkout", h.CreateCheckout)
		rtr.Get("/checkout/confirm", h.ConfirmCheckout)
	})

	return rtr
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	sugar := logger.Sugar().Named("request")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			sugar.Infow("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}
