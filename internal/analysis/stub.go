package analysis

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/pkg/errors"

	"github.com/you/editalscan/internal/domain"
)

// Stub is the deterministic placeholder analyzer: it derives a fixed-shape
// result from the input reference so the same document always yields the
// same report.
type Stub struct{}

var _ Analyzer = Stub{}

var riskPool = []string{
	"Imóvel ocupado: desocupação pode exigir ação judicial",
	"Débitos de IPTU anteriores à arrematação",
	"Débitos condominiais em aberto no registro",
	"Penhora concorrente registrada na matrícula",
	"Edital prevê pagamento à vista em prazo curto",
	"Ação de usucapião em andamento sobre o imóvel",
	"Averbação de indisponibilidade não baixada",
}

var opportunityPool = []string{
	"Lance inicial abaixo da avaliação de mercado",
	"Segunda praça com deságio relevante",
	"Localização com liquidez alta para revenda",
	"Possibilidade de parcelamento prevista no edital",
	"Matrícula sem ônus reais além da execução",
}

func (Stub) Analyze(_ context.Context, inputRef string) (domain.AnalysisResult, error) {
	if inputRef == "" {
		return domain.AnalysisResult{}, errors.New("empty input reference")
	}

	h := fnv.New64a()
	_, _ = h.Write([]byte(inputRef))
	seed := h.Sum64()

	risks := pick(riskPool, int(seed%uint64(len(riskPool))), 2+int(seed%3))
	opportunities := pick(opportunityPool, int((seed>>8)%uint64(len(opportunityPool))), 2+int((seed>>8)%2))

	// Viability stays inside 3.0..10.0, one decimal place.
	score := 3.0 + float64((seed>>16)%71)/10.0
	score = math.Round(score*10) / 10

	return domain.AnalysisResult{
		Risks:          risks,
		Opportunities:  opportunities,
		ViabilityScore: score,
	}, nil
}

func pick(pool []string, start, n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, pool[(start+i)%len(pool)])
	}
	return out
}
