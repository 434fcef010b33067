package checkout_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/you/editalscan/internal/checkout"
	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/storage"
)

func seedJob(t *testing.T, store storage.Store) string {
	t.Helper()
	now := time.Now().UTC()
	job := &domain.Job{
		ID:             uuid.NewString(),
		Status:         domain.StatusDone,
		InputRef:       "https://leiloes.example.com/editais/galpao-3.pdf",
		Contact:        domain.Contact{Name: "Ana", Email: "ana@example.com", Phone: "+55 11 98888-0000"},
		AccessToken:    "token",
		TokenExpiresAt: now.Add(time.Hour),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, store.CreateJob(context.Background(), job))
	return job.ID
}

func TestSessionURL(t *testing.T) {
	store := storage.NewMemory()
	jobID := seedJob(t, store)
	svc := checkout.New(store, "http://localhost:8080", zap.NewNop())

	u, err := svc.SessionURL(context.Background(), jobID, "analise-completa")
	require.NoError(t, err)
	assert.Contains(t, u, "/v1/checkout/confirm?")
	assert.Contains(t, u, "job_id="+jobID)
	assert.Contains(t, u, "plan=analise-completa")
	assert.Contains(t, u, "paid=1")
}

func TestSessionURLRejectsUnknownPlan(t *testing.T) {
	store := storage.NewMemory()
	jobID := seedJob(t, store)
	svc := checkout.New(store, "http://localhost:8080", zap.NewNop())

	_, err := svc.SessionURL(context.Background(), jobID, "plano-inexistente")
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestSessionURLRejectsUnknownJob(t *testing.T) {
	svc := checkout.New(storage.NewMemory(), "http://localhost:8080", zap.NewNop())

	_, err := svc.SessionURL(context.Background(), uuid.NewString(), "analise-completa")
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestConfirm(t *testing.T) {
	store := storage.NewMemory()
	jobID := seedJob(t, store)
	svc := checkout.New(store, "http://localhost:8080", zap.NewNop())

	require.NoError(t, svc.Confirm(context.Background(), jobID, "analise-completa", "1"))

	e, err := store.GetEntitlement(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, "analise-completa", e.Plan)

	// Confirming again keeps the original record.
	require.NoError(t, svc.Confirm(context.Background(), jobID, "analise-essencial", "1"))
	e, err = store.GetEntitlement(context.Background(), jobID)
	require.NoError(t, err)
	assert.Equal(t, "analise-completa", e.Plan)
}

func TestConfirmRejectsMissingMarker(t *testing.T) {
	store := storage.NewMemory()
	jobID := seedJob(t, store)
	svc := checkout.New(store, "http://localhost:8080", zap.NewNop())

	err := svc.Confirm(context.Background(), jobID, "analise-completa", "0")
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = store.GetEntitlement(context.Background(), jobID)
	assert.ErrorIs(t, err, domain.ErrEntitlementNotFound)
}
