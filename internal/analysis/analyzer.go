package analysis

import (
	"context"

	"github.com/you/editalscan/internal/domain"
)

// Analyzer turns a document reference into an analysis result. The real
// document-understanding pipeline lives outside this service; implementations
// here are expected to be pure functions of the input reference.
type Analyzer interface {
	Analyze(ctx context.Context, inputRef string) (domain.AnalysisResult, error)
}
