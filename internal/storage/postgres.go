package storage

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/you/editalscan/internal/domain"
)

// Postgres persists jobs and entitlements (source of truth).
type Postgres struct {
	db *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

func NewPostgres(db *pgxpool.Pool) *Postgres { return &Postgres{db} }

func (s *Postgres) CreateJob(ctx context.Context, job *domain.Job) error {
	_, err := s.db.Exec(ctx, `insert into jobs(
id, status, input_ref, contact_name, contact_email, contact_phone,
access_token, token_expires_at, created_at, updated_at
) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		job.ID, job.Status, job.InputRef,
		job.Contact.Name, job.Contact.Email, job.Contact.Phone,
		job.AccessToken, job.TokenExpiresAt, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return domain.NewStorageError(err, "insert job")
	}
	return nil
}

func (s *Postgres) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	row := s.db.QueryRow(ctx, `select
id, status, input_ref, contact_name, contact_email, contact_phone,
access_token, token_expires_at, result, report_artifact, error_message,
created_at, updated_at, completed_at
  from jobs where id = $1`, id)

	var (
		job        domain.Job
		resultJSON []byte
	)
	err := row.Scan(
		&job.ID, &job.Status, &job.InputRef,
		&job.Contact.Name, &job.Contact.Email, &job.Contact.Phone,
		&job.AccessToken, &job.TokenExpiresAt,
		&resultJSON, &job.ReportArtifact, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJobNotFound
		}
		return nil, domain.NewStorageError(err, "select job")
	}
	if resultJSON != nil {
		var r domain.AnalysisResult
		if err := json.Unmarshal(resultJSON, &r); err != nil {
			return nil, domain.NewStorageError(err, "decode job result")
		}
		job.Result = &r
	}
	return &job, nil
}

func (s *Postgres) StartProcessing(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `update jobs
    set status = 'processing', updated_at = $2
  where id = $1 and status = 'received'`, id, at)
	if err != nil {
		return false, domain.NewStorageError(err, "start processing")
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Postgres) CompleteJob(ctx context.Context, id string, result domain.AnalysisResult, artifact string, at time.Time) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return domain.NewStorageError(err, "encode job result")
	}
	tag, err := s.db.Exec(ctx, `update jobs
    set status = 'done',
        result = $2,
        report_artifact = $3,
        completed_at = $4,
        updated_at = $4
  where id = $1 and status = 'processing'`, id, resultJSON, artifact, at)
	if err != nil {
		return domain.NewStorageError(err, "complete job")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

func (s *Postgres) FailJob(ctx context.Context, id string, message string, at time.Time) error {
	tag, err := s.db.Exec(ctx, `update jobs
    set status = 'error',
        error_message = $2,
        completed_at = $3,
        updated_at = $3
  where id = $1 and status in ('received', 'processing')`, id, message, at)
	if err != nil {
		return domain.NewStorageError(err, "fail job")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAlreadyProcessed
	}
	return nil
}

func (s *Postgres) ListStale(ctx context.Context, status domain.Status, cutoff time.Time, limit int) ([]string, error) {
	rows, err := s.db.Query(ctx, `select id from jobs
  where status = $1 and updated_at < $2
  order by updated_at asc limit $3`, status, cutoff, limit)
	if err != nil {
		return nil, domain.NewStorageError(err, "list stale jobs")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, domain.NewStorageError(err, "scan stale job id")
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError(err, "list stale jobs")
	}
	return ids, nil
}

func (s *Postgres) CreateEntitlement(ctx context.Context, e domain.Entitlement) error {
	_, err := s.db.Exec(ctx, `insert into entitlements(job_id, plan, paid_at)
  values ($1,$2,$3)
  on conflict (job_id) do nothing`, e.JobID, e.Plan, e.PaidAt)
	if err != nil {
		return domain.NewStorageError(err, "insert entitlement")
	}
	return nil
}

func (s *Postgres) GetEntitlement(ctx context.Context, jobID string) (*domain.Entitlement, error) {
	var e domain.Entitlement
	err := s.db.QueryRow(ctx,
		`select job_id, plan, paid_at from entitlements where job_id = $1`,
		jobID,
	).Scan(&e.JobID, &e.Plan, &e.PaidAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntitlementNotFound
		}
		return nil, domain.NewStorageError(err, "select entitlement")
	}
	return &e, nil
}

func (s *Postgres) TryAdvisoryLock(ctx context.Context, key int64) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx, `select pg_try_advisory_lock($1)`, key).Scan(&ok); err != nil {
		return false, domain.NewStorageError(err, "advisory lock")
	}
	return ok, nil
}

func (s *Postgres) Close() { s.db.Close() }
