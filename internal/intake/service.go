package intake

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/queue"
	"github.com/you/editalscan/internal/storage"
)

// Service is the single job-creation path. It validates the submission,
// persists the job with a fresh access capability, and hands the id to the
// worker queue. The returned job carries the id and token the caller needs
// to view the report; the id alone is not enough.
type Service struct {
	store    storage.Store
	queue    queue.Queue
	validate *validator.Validate
	ttl      time.Duration
	logger   *zap.SugaredLogger
}

func New(store storage.Store, q queue.Queue, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		store:    store,
		queue:    q,
		validate: validator.New(),
		ttl:      ttl,
		logger:   logger.Sugar().Named("intake"),
	}
}

func (s *Service) Create(ctx context.Context, sub domain.Submission) (*domain.Job, error) {
	if err := s.validateSubmission(sub); err != nil {
		return nil, err
	}

	token, err := generateAccessToken()
	if err != nil {
		return nil, domain.NewStorageError(err, "generate access token")
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:             uuid.NewString(),
		Status:         domain.StatusReceived,
		InputRef:       sub.InputRef(),
		Contact:        sub.Contact(),
		AccessToken:    token,
		TokenExpiresAt: now.Add(s.ttl),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// No token is issued and nothing is enqueued unless the write lands.
	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	// Fire-and-forget: a lost enqueue leaves the job in received and the
	// worker's sweep re-enqueues it.
	if err := s.queue.Enqueue(ctx, job.ID); err != nil {
		s.logger.Warnw("enqueue failed, job left for sweep", "job_id", job.ID, "error", err)
	}

	s.logger.Infow("job created", "job_id", job.ID, "expires_at", job.TokenExpiresAt)
	return job, nil
}

func (s *Service) validateSubmission(sub domain.Submission) error {
	if err := s.validate.Struct(sub); err != nil {
		return domain.NewValidationError("invalid submission: %v", err)
	}

	hasURL := strings.TrimSpace(sub.DocumentURL) != ""
	hasText := strings.TrimSpace(sub.DocumentText) != ""
	switch {
	case !hasURL && !hasText:
		return domain.NewValidationError("either document_url or document_text is required")
	case hasURL && hasText:
		return domain.NewValidationError("document_url and document_text are mutually exclusive")
	case hasURL && !looksLikeDocument(sub.DocumentURL):
		return domain.NewValidationError("document_url does not look like a document link")
	}
	return nil
}

var documentExtensions = []string{".pdf", ".doc", ".docx", ".odt"}

func looksLikeDocument(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return false
	}
	path := strings.ToLower(u.Path)
	for _, ext := range documentExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// generateAccessToken returns 32 random bytes hex-encoded. The token is a
// bearer capability compared by equality, never signed or rotated.
func generateAccessToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
