package domain

import "time"

type Status string

const (
	StatusReceived   Status = "received"
	StatusProcessing Status = "processing"
	StatusDone       Status = "done"
	StatusError      Status = "error"
)

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool { return s == StatusDone || s == StatusError }

type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// AnalysisResult is the fixed-shape output of the analysis step. The JSON
// keys are the wire contract consumed by the report page and must not change.
type AnalysisResult struct {
	Risks          []string `json:"riscos"`
	Opportunities  []string `json:"oportunidades"`
	ViabilityScore float64  `json:"score_viabilidade"`
}

// Job is one submitted analysis request and its lifecycle state. Postgres is
// the source of truth; after creation only the worker writes to it.
type Job struct {
	ID             string
	Status         Status
	InputRef       string
	Contact        Contact
	AccessToken    string
	TokenExpiresAt time.Time
	Result         *AnalysisResult
	ReportArtifact *string
	ErrorMessage   *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	CompletedAt    *time.Time
}

// Entitlement records a confirmed payment for a job's full report. It is the
// server-side replacement for a client-held paid flag.
type Entitlement struct {
	JobID  string
	Plan   string
	PaidAt time.Time
}
