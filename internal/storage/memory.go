package storage

import (
	"context"
	"sync"
	"time"

	"github.com/you/editalscan/internal/domain"
)

// Memory is an in-process Store used by tests and local development.
type Memory struct {
	mu           sync.RWMutex
	jobs         map[string]*domain.Job
	entitlements map[string]domain.Entitlement
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		jobs:         make(map[string]*domain.Job),
		entitlements: make(map[string]domain.Entitlement),
	}
}

func copyJob(j *domain.Job) *domain.Job {
	cp := *j
	if j.Result != nil {
		r := *j.Result
		r.Risks = append([]string(nil), j.Result.Risks...)
		r.Opportunities = append([]string(nil), j.Result.Opportunities...)
		cp.Result = &r
	}
	if j.ReportArtifact != nil {
		a := *j.ReportArtifact
		cp.ReportArtifact = &a
	}
	if j.ErrorMessage != nil {
		m := *j.ErrorMessage
		cp.ErrorMessage = &m
	}
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		cp.CompletedAt = &t
	}
	return &cp
}

func (s *Memory) CreateJob(_ context.Context, job *domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = copyJob(job)
	return nil
}

func (s *Memory) GetJob(_ context.Context, id string) (*domain.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return copyJob(job), nil
}

func (s *Memory) StartProcessing(_ context.Context, id string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != domain.StatusReceived {
		return false, nil
	}
	job.Status = domain.StatusProcessing
	job.UpdatedAt = at
	return true, nil
}

func (s *Memory) CompleteJob(_ context.Context, id string, result domain.AnalysisResult, artifact string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status != domain.StatusProcessing {
		return domain.ErrAlreadyProcessed
	}
	r := result
	job.Result = &r
	job.ReportArtifact = &artifact
	job.Status = domain.StatusDone
	t := at
	job.CompletedAt = &t
	job.UpdatedAt = at
	return nil
}

func (s *Memory) FailJob(_ context.Context, id string, message string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status.Terminal() {
		return domain.ErrAlreadyProcessed
	}
	job.Status = domain.StatusError
	job.ErrorMessage = &message
	t := at
	job.CompletedAt = &t
	job.UpdatedAt = at
	return nil
}

func (s *Memory) ListStale(_ context.Context, status domain.Status, cutoff time.Time, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var ids []string
	for id, job := range s.jobs {
		if job.Status == status && job.UpdatedAt.Before(cutoff) {
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}
	}
	return ids, nil
}

func (s *Memory) CreateEntitlement(_ context.Context, e domain.Entitlement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entitlements[e.JobID]; !ok {
		s.entitlements[e.JobID] = e
	}
	return nil
}

func (s *Memory) GetEntitlement(_ context.Context, jobID string) (*domain.Entitlement, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entitlements[jobID]
	if !ok {
		return nil, domain.ErrEntitlementNotFound
	}
	return &e, nil
}

func (s *Memory) TryAdvisoryLock(context.Context, int64) (bool, error) { return true, nil }

func (s *Memory) Close() {}

// ForceExpiry rewinds a job's token expiry; test hook only.
func (s *Memory) ForceExpiry(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[id]; ok {
		job.TokenExpiresAt = at
	}
}
