package checkout

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/storage"
)

type Plan struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PriceCents int    `json:"price_cents"`
}

var plans = []Plan{
	{ID: "analise-essencial", Name: "Análise Essencial", PriceCents: 9700},
	{ID: "analise-completa", Name: "Análise Completa", PriceCents: 19700},
}

func Plans() []Plan { return plans }

func PlanByID(id string) (Plan, bool) {
	for _, p := range plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Service is the simulated payment provider. SessionURL stands in for a
// hosted checkout page: it points straight back at the confirm endpoint with
// the success marker already set. Confirm records the entitlement.
type Service struct {
	store   storage.Store
	baseURL string
	logger  *zap.SugaredLogger
}

func New(store storage.Store, baseURL string, logger *zap.Logger) *Service {
	return &Service{store: store, baseURL: baseURL, logger: logger.Sugar().Named("checkout")}
}

func (s *Service) SessionURL(ctx context.Context, jobID, planID string) (string, error) {
	if _, ok := PlanByID(planID); !ok {
		return "", domain.NewValidationError("unknown plan %q", planID)
	}
	if _, err := s.store.GetJob(ctx, jobID); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("job_id", jobID)
	q.Set("plan", planID)
	q.Set("paid", "1")
	return fmt.Sprintf("%s/v1/checkout/confirm?%s", s.baseURL, q.Encode()), nil
}

// Confirm handles the return-from-payment redirect. The paid marker is the
// whole trust signal here; the spec treats real payment verification as out
// of scope.
func (s *Service) Confirm(ctx context.Context, jobID, planID, paid string) error {
	if paid != "1" {
		return domain.NewValidationError("payment not confirmed")
	}
	if _, ok := PlanByID(planID); !ok {
		return domain.NewValidationError("unknown plan %q", planID)
	}
	if _, err := s.store.GetJob(ctx, jobID); err != nil {
		return err
	}

	err := s.store.CreateEntitlement(ctx, domain.Entitlement{
		JobID:  jobID,
		Plan:   planID,
		PaidAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	s.logger.Infow("entitlement recorded", "job_id", jobID, "plan", planID)
	return nil
}
