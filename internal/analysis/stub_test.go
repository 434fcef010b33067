package analysis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/you/editalscan/internal/analysis"
)

func TestStubIsDeterministic(t *testing.T) {
	stub := analysis.Stub{}
	ref := "https://leiloes.example.com/editais/apto-301.pdf"

	a, err := stub.Analyze(context.Background(), ref)
	require.NoError(t, err)
	b, err := stub.Analyze(context.Background(), ref)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestStubShape(t *testing.T) {
	stub := analysis.Stub{}

	refs := []string{
		"https://leiloes.example.com/editais/apto-301.pdf",
		"https://leiloes.example.com/editais/casa-12.pdf",
		"EDITAL DE LEILÃO Nº 12/2026 texto colado",
	}
	for _, ref := range refs {
		result, err := stub.Analyze(context.Background(), ref)
		require.NoError(t, err)
		assert.NotEmpty(t, result.Risks)
		assert.NotEmpty(t, result.Opportunities)
		assert.GreaterOrEqual(t, result.ViabilityScore, 0.0)
		assert.LessOrEqual(t, result.ViabilityScore, 10.0)
	}
}

func TestStubRejectsEmptyInput(t *testing.T) {
	_, err := analysis.Stub{}.Analyze(context.Background(), "")
	assert.Error(t, err)
}
