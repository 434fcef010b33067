package gateway

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/pkg/errors"

	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/storage"
)

// Snapshot is one access-checked view of a job's state. Artifact and
// ErrorMessage are populated only on the matching terminal status.
type Snapshot struct {
	JobID        string
	Status       domain.Status
	Result       *domain.AnalysisResult
	Artifact     string
	ErrorMessage string
}

// Terminal reports whether polling can stop.
func (s Snapshot) Terminal() bool { return s.Status.Terminal() }

// Gateway mediates all report reads. Nothing about a job is exposed before
// the capability checks pass: job exists, token matches, token not expired —
// in that order. Unknown ids and bad tokens both surface as ErrAccessDenied
// so callers cannot probe for existing ids.
type Gateway struct {
	store storage.Store
}

func New(store storage.Store) *Gateway { return &Gateway{store} }

func (g *Gateway) Check(ctx context.Context, jobID, token string) (*Snapshot, error) {
	if jobID == "" || token == "" {
		return nil, domain.ErrAccessDenied
	}

	job, err := g.store.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			return nil, domain.ErrAccessDenied
		}
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(job.AccessToken)) != 1 {
		return nil, domain.ErrAccessDenied
	}

	// Expiry is permanent: a worker may still finish after this point, but
	// the report is never shown again.
	if !time.Now().Before(job.TokenExpiresAt) {
		return nil, domain.ErrTokenExpired
	}

	snap := &Snapshot{JobID: job.ID, Status: job.Status, Result: job.Result}
	switch job.Status {
	case domain.StatusDone:
		if job.ReportArtifact != nil {
			snap.Artifact = *job.ReportArtifact
		}
	case domain.StatusError:
		if job.ErrorMessage != nil {
			snap.ErrorMessage = *job.ErrorMessage
		}
	}
	return snap, nil
}
