package paywall

import (
	"context"

	"github.com/pkg/errors"

	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/report"
	"github.com/you/editalscan/internal/storage"
)

// View is the paywall-split report body. The free fields are always present;
// Restricted is nil until a payment is recorded for the job, in which case
// CheckoutURL is empty.
type View struct {
	Summary     string      `json:"summary"`
	Checklist   []string    `json:"checklist"`
	NextStep    string      `json:"next_step"`
	Restricted  *Restricted `json:"restricted,omitempty"`
	CheckoutURL string      `json:"checkout_url,omitempty"`
}

type Restricted struct {
	Risks          []string `json:"riscos"`
	Opportunities  []string `json:"oportunidades"`
	ViabilityScore float64  `json:"score_viabilidade"`
	Recommendation string   `json:"recomendacao_final"`
}

// Gate decides whether the restricted report subset is rendered. The signal
// is a server-side entitlement record keyed by job id, never a client-held
// flag.
type Gate struct {
	store storage.Store
}

func NewGate(store storage.Store) *Gate { return &Gate{store} }

// Entitled reports whether a confirmed payment exists for the job.
func (g *Gate) Entitled(ctx context.Context, jobID string) (bool, error) {
	_, err := g.store.GetEntitlement(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrEntitlementNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// BuildView assembles the report body for one result. checkoutURL is the
// call-to-action shown when entitled is false.
func BuildView(result domain.AnalysisResult, entitled bool, checkoutURL string) View {
	v := View{
		Summary:   report.Summary(result),
		Checklist: report.Checklist(),
		NextStep:  report.NextStep(result),
	}
	if entitled {
		v.Restricted = &Restricted{
			Risks:          result.Risks,
			Opportunities:  result.Opportunities,
			ViabilityScore: result.ViabilityScore,
			Recommendation: report.NextStep(result),
		}
		return v
	}
	v.CheckoutURL = checkoutURL
	return v
}
