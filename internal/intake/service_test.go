package intake_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/intake"
	"github.com/you/editalscan/internal/queue"
	"github.com/you/editalscan/internal/storage"
)

func validSubmission() domain.Submission {
	return domain.Submission{
		DocumentURL: "https://leiloes.example.com/editais/apto-301.pdf",
		Name:        "Ana",
		Phone:       "+55 11 98888-0000",
		Email:       "ana@example.com",
	}
}

func TestCreate(t *testing.T) {
	store := storage.NewMemory()
	q := queue.NewMemory(8)
	svc := intake.New(store, q, time.Hour, zap.NewNop())

	job, err := svc.Create(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.Equal(t, domain.StatusReceived, job.Status)
	assert.NotEmpty(t, job.ID)
	assert.NotEmpty(t, job.AccessToken)
	assert.Equal(t, time.Hour, job.TokenExpiresAt.Sub(job.CreatedAt))
	assert.Nil(t, job.Result)
	assert.Nil(t, job.ErrorMessage)

	stored, err := store.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.AccessToken, stored.AccessToken)
	assert.Equal(t, "https://leiloes.example.com/editais/apto-301.pdf", stored.InputRef)
	assert.Equal(t, "Ana", stored.Contact.Name)

	assert.Equal(t, 1, q.Len())
}

func TestCreateTokensAreUnique(t *testing.T) {
	svc := intake.New(storage.NewMemory(), queue.NewMemory(8), time.Hour, zap.NewNop())

	a, err := svc.Create(context.Background(), validSubmission())
	require.NoError(t, err)
	b, err := svc.Create(context.Background(), validSubmission())
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.AccessToken, b.AccessToken)
}

func TestCreateInlineText(t *testing.T) {
	svc := intake.New(storage.NewMemory(), queue.NewMemory(8), time.Hour, zap.NewNop())

	sub := validSubmission()
	sub.DocumentURL = ""
	sub.DocumentText = "EDITAL DE LEILÃO Nº 12/2026 ..."

	job, err := svc.Create(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, sub.DocumentText, job.InputRef)
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Submission)
	}{
		{"missing name", func(s *domain.Submission) { s.Name = "" }},
		{"missing email", func(s *domain.Submission) { s.Email = "" }},
		{"malformed email", func(s *domain.Submission) { s.Email = "not-an-email" }},
		{"missing phone", func(s *domain.Submission) { s.Phone = "" }},
		{"missing document", func(s *domain.Submission) { s.DocumentURL = "" }},
		{"both document fields", func(s *domain.Submission) { s.DocumentText = "texto" }},
		{"non-document url", func(s *domain.Submission) { s.DocumentURL = "https://example.com/pagina.html" }},
		{"bad scheme", func(s *domain.Submission) { s.DocumentURL = "ftp://example.com/edital.pdf" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := queue.NewMemory(8)
			svc := intake.New(storage.NewMemory(), q, time.Hour, zap.NewNop())

			sub := validSubmission()
			tc.mutate(&sub)

			_, err := svc.Create(context.Background(), sub)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, 0, q.Len(), "nothing may be enqueued on validation failure")
		})
	}
}

type failingStore struct {
	*storage.Memory
}

func (failingStore) CreateJob(context.Context, *domain.Job) error {
	return domain.NewStorageError(errors.New("connection refused"), "insert job")
}

func TestCreateStorageFailure(t *testing.T) {
	q := queue.NewMemory(8)
	svc := intake.New(failingStore{storage.NewMemory()}, q, time.Hour, zap.NewNop())

	_, err := svc.Create(context.Background(), validSubmission())
	var serr *domain.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 0, q.Len(), "nothing may be enqueued when the write fails")
}
