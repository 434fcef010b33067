package report

import (
	"fmt"
	"strings"

	"github.com/you/editalscan/internal/domain"
)

// Render produces the stored report artifact (markdown) from an analysis
// result. The artifact is written once by the worker and served verbatim.
func Render(result domain.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("# Análise de Edital\n\n")
	fmt.Fprintf(&b, "**Viabilidade:** %.1f/10\n\n", result.ViabilityScore)

	b.WriteString("## Riscos\n")
	for _, r := range result.Risks {
		fmt.Fprintf(&b, "- %s\n", r)
	}

	b.WriteString("\n## Oportunidades\n")
	for _, o := range result.Opportunities {
		fmt.Fprintf(&b, "- %s\n", o)
	}

	b.WriteString("\n## Próximo passo\n")
	b.WriteString(NextStep(result))
	b.WriteString("\n")

	return b.String()
}

// Summary is the unconditional (free) digest: counts and score only, never
// the underlying risk strings.
func Summary(result domain.AnalysisResult) string {
	return fmt.Sprintf(
		"Identificamos %d riscos e %d oportunidades neste edital. Viabilidade estimada: %.1f/10.",
		len(result.Risks), len(result.Opportunities), result.ViabilityScore,
	)
}

// Checklist is the fixed pre-arrematação checklist shown to every viewer.
func Checklist() []string {
	return []string{
		"Leia o edital completo antes de dar qualquer lance",
		"Confirme a matrícula atualizada no cartório de registro",
		"Verifique débitos de IPTU e condomínio junto aos órgãos",
		"Visite o imóvel ou a região quando possível",
	}
}

// NextStep picks the recommended follow-up from the score band.
func NextStep(result domain.AnalysisResult) string {
	switch {
	case result.ViabilityScore >= 7:
		return "Edital com boa viabilidade: agende a análise jurídica completa antes do leilão."
	case result.ViabilityScore >= 5:
		return "Viabilidade moderada: aprofunde a checagem dos riscos listados antes de decidir."
	default:
		return "Viabilidade baixa: recomendamos buscar outro edital ou assessoria especializada."
	}
}
