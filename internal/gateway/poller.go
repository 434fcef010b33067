package gateway

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Update is one poll outcome. Err is terminal: the channel closes after an
// update carrying one.
type Update struct {
	Snapshot *Snapshot
	Err      error
}

// Poller runs the fixed-interval poll loop over Gateway.Check. It stops for
// good on the first terminal snapshot, on any access/expiry failure, or when
// the context is cancelled; no further checks are issued after that.
type Poller struct {
	gateway  *Gateway
	interval time.Duration
	logger   *zap.SugaredLogger
}

func NewPoller(g *Gateway, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		gateway:  g,
		interval: interval,
		logger:   logger.Sugar().Named("poller"),
	}
}

// Watch emits an immediate first check and then one per interval. The
// returned channel is closed once polling stops.
func (p *Poller) Watch(ctx context.Context, jobID, token string) <-chan Update {
	out := make(chan Update, 1)

	go func() {
		defer close(out)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			snap, err := p.gateway.Check(ctx, jobID, token)
			if err != nil {
				p.logger.Debugw("polling stopped", "job_id", jobID, "error", err)
				p.deliver(ctx, out, Update{Err: err})
				return
			}
			if !p.deliver(ctx, out, Update{Snapshot: snap}) {
				return
			}
			if snap.Terminal() {
				return
			}

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (p *Poller) deliver(ctx context.Context, out chan<- Update, u Update) bool {
	select {
	case out <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
