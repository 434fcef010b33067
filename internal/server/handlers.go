package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/you/editalscan/internal/checkout"
	"github.com/you/editalscan/internal/domain"
	"github.com/you/editalscan/internal/paywall"
)

type submissionResponse struct {
	ID             string    `json:"id"`
	AccessToken    string    `json:"access_token"`
	TokenExpiresAt time.Time `json:"token_expires_at"`
}

func (h *Handlers) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	var sub domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}

	job, err := h.intake.Create(r.Context(), sub)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, submissionResponse{
		ID:             job.ID,
		AccessToken:    job.AccessToken,
		TokenExpiresAt: job.TokenExpiresAt,
	})
}

type reportResponse struct {
	Status       domain.Status `json:"status"`
	Report       *paywall.View `json:"report,omitempty"`
	Artifact     string        `json:"artifact,omitempty"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

func (h *Handlers) GetReport(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "id")
	token := r.URL.Query().Get("token")

	snap, err := h.gateway.Check(r.Context(), jobID, token)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp := reportResponse{Status: snap.Status}
	switch snap.Status {
	case domain.StatusDone:
		entitled, err := h.gate.Entitled(r.Context(), snap.JobID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		cta := ""
		if !entitled {
			cta, err = h.checkout.SessionURL(r.Context(), snap.JobID, checkout.Plans()[0].ID)
			if err != nil {
				h.writeError(w, err)
				return
			}
		}
		view := paywall.BuildView(*snap.Result, entitled, cta)
		resp.Report = &view
		resp.Artifact = snap.Artifact
	case domain.StatusError:
		resp.ErrorMessage = snap.ErrorMessage
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) ListPlans(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, checkout.Plans())
}

type checkoutRequest struct {
	JobID string `json:"job_id"`
	Plan  string `json:"plan"`
}

func (h *Handlers) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, domain.NewValidationError("invalid request body: %v", err))
		return
	}

	sessionURL, err := h.checkout.SessionURL(r.Context(), req.JobID, req.Plan)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"checkout_url": sessionURL})
}

func (h *Handlers) ConfirmCheckout(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	err := h.checkout.Confirm(r.Context(), q.Get("job_id"), q.Get("plan"), q.Get("paid"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "paid"})
}
