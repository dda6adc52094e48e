// Package data implements the persistence layer over PostgreSQL.
package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/data/pgxutil"
	"github.com/feru-app/beacon/internal/domain/model"
)

// RepoConfig holds shared configuration options for repositories.
type RepoConfig struct {
	Logger       *slog.Logger
	TimeProvider TimeProvider
}

// AuditRepo provides database operations for audit jobs and their per-region results.
type AuditRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

var _ core.AuditRepository = (*AuditRepo)(nil)

// NewAuditRepo creates a new AuditRepo instance with the given database connection and configuration.
func NewAuditRepo(db *sql.DB, cfg RepoConfig) *AuditRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &AuditRepo{DB: db, timeProvider: tp, logger: cfg.Logger}
}

const auditJobColumns = `
  id,
  url,
  device,
  regions,
  requester_ip,
  owner_id,
  status,
  created_at,
  completed_at
`

const auditResultColumns = `
  id,
  job_id,
  region,
  status,
  report_url,
  metrics_url,
  lcp,
  fcp,
  cls,
  tbt,
  tti,
  ttfb,
  performance_score,
  created_at,
  completed_at
`

// fnvHash computes FNV-1a 64-bit hash of the given string for use as advisory lock key.
func fnvHash(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64()) //nolint:gosec // advisory lock keys are allowed to wrap
}

// CreateWithResults atomically inserts the job row plus one pending result row
// per requested region, in the order supplied. The region→result mapping is
// fixed here, before any dispatch begins.
func (r *AuditRepo) CreateWithResults(
	ctx context.Context,
	req *model.CreateAuditRequest,
) (*model.AuditJob, error) {
	if req == nil {
		return nil, errors.New("create audit request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := r.timeProvider.Now().UTC()
	regionsJSON, err := json.Marshal(req.Regions)
	if err != nil {
		return nil, fmt.Errorf("marshal regions: %w", err)
	}

	job := &model.AuditJob{
		ID:          uuid.NewString(),
		URL:         req.URL,
		Device:      req.Device,
		Regions:     req.Regions,
		RequesterIP: req.RequesterIP,
		OwnerID:     req.OwnerID,
		Status:      model.StatusPending,
		CreatedAt:   now,
	}
	for _, region := range req.Regions {
		job.Results = append(job.Results, &model.AuditResult{
			ID:        uuid.NewString(),
			JobID:     job.ID,
			Region:    region,
			Status:    model.StatusPending,
			CreatedAt: now,
		})
	}

	txErr := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Fn: func(tx pgx.Tx) error {
			if _, insertErr := tx.Exec(ctx, `
				INSERT INTO audit_jobs (id, url, device, regions, requester_ip, owner_id, status, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				job.ID, job.URL, job.Device, regionsJSON, job.RequesterIP, job.OwnerID, job.Status, now,
			); insertErr != nil {
				return fmt.Errorf("insert audit job: %w", insertErr)
			}

			batch := &pgx.Batch{}
			for _, res := range job.Results {
				batch.Queue(`
					INSERT INTO audit_results (id, job_id, region, status, created_at)
					VALUES ($1, $2, $3, $4, $5)`,
					res.ID, res.JobID, res.Region, res.Status, now)
			}
			br := tx.SendBatch(ctx, batch)
			defer func() {
				_ = br.Close()
			}()
			for range job.Results {
				if _, execErr := br.Exec(); execErr != nil {
					return fmt.Errorf("insert audit result: %w", execErr)
				}
			}
			return nil
		},
	})
	if txErr != nil {
		return nil, txErr
	}

	if r.logger != nil {
		r.logger.DebugContext(ctx, "audit job created",
			"id", job.ID, "regions", len(job.Regions))
	}

	return job, nil
}

// GetByID returns a job with its per-region results nested, ordered as requested.
func (r *AuditRepo) GetByID(ctx context.Context, id string) (*model.AuditJob, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+auditJobColumns+` FROM audit_jobs WHERE id = $1`, id)
	job, err := scanAuditJob(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("get audit job %s: %w", id, err)
	}

	results, err := r.resultsForJobs(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	job.Results = orderResults(results[id], job.Regions)
	return job, nil
}

// ListByOwner returns the owner's jobs, newest first, with nested results.
func (r *AuditRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.AuditJob, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+auditJobColumns+` FROM audit_jobs WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list audit jobs by owner: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var jobs []*model.AuditJob
	var ids []string
	for rows.Next() {
		job, scanErr := scanAuditJob(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan audit job: %w", scanErr)
		}
		jobs = append(jobs, job)
		ids = append(ids, job.ID)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate audit jobs: %w", rowsErr)
	}
	if len(jobs) == 0 {
		return []*model.AuditJob{}, nil
	}

	byJob, err := r.resultsForJobs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, job := range jobs {
		job.Results = orderResults(byJob[job.ID], job.Regions)
	}
	return jobs, nil
}

// resultsForJobs fetches results for the given job ids in one query to avoid N+1 lookups.
func (r *AuditRepo) resultsForJobs(
	ctx context.Context,
	jobIDs []string,
) (map[string][]*model.AuditResult, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+auditResultColumns+` FROM audit_results WHERE job_id = ANY($1)`, jobIDs)
	if err != nil {
		return nil, fmt.Errorf("list audit results: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	byJob := make(map[string][]*model.AuditResult, len(jobIDs))
	for rows.Next() {
		res, scanErr := scanAuditResult(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan audit result: %w", scanErr)
		}
		byJob[res.JobID] = append(byJob[res.JobID], res)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate audit results: %w", rowsErr)
	}
	return byJob, nil
}

// orderResults sorts results into the job's requested region order.
func orderResults(results []*model.AuditResult, regions []string) []*model.AuditResult {
	if len(results) < 2 {
		return results
	}
	pos := make(map[string]int, len(regions))
	for i, region := range regions {
		pos[region] = i
	}
	ordered := make([]*model.AuditResult, len(results))
	copy(ordered, results)
	for i := range ordered {
		for j := i + 1; j < len(ordered); j++ {
			if pos[ordered[j].Region] < pos[ordered[i].Region] {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			}
		}
	}
	return ordered
}

// SetResultFailed marks a result failed on the dispatch-failure path.
// Guarded so an already-terminal row is never regressed; completed_at is set once.
func (r *AuditRepo) SetResultFailed(ctx context.Context, resultID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE audit_results
		SET status = 'failed', completed_at = COALESCE(completed_at, $2)
		WHERE id = $1 AND status NOT IN ('completed', 'failed')`,
		resultID, at.UTC())
	if err != nil {
		return fmt.Errorf("mark result %s failed: %w", resultID, err)
	}
	return nil
}

// SetJobFailed marks the whole job failed on the dispatch-failure path.
func (r *AuditRepo) SetJobFailed(ctx context.Context, jobID string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE audit_jobs
		SET status = 'failed', completed_at = COALESCE(completed_at, $2)
		WHERE id = $1`,
		jobID, at.UTC())
	if err != nil {
		return fmt.Errorf("mark job %s failed: %w", jobID, err)
	}
	return nil
}

// WithJobLock runs fn inside a transaction holding a per-job advisory lock.
// pg_advisory_xact_lock blocks until the lock is granted and releases it at
// commit/rollback, serializing status aggregation per job across all replicas.
func (r *AuditRepo) WithJobLock(
	ctx context.Context,
	jobID string,
	fn func(context.Context, *sql.Tx) error,
) error {
	lockKey := fnvHash("audit_job:" + jobID)
	return pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
				return fmt.Errorf("acquire advisory lock for job %s: %w", jobID, err)
			}
			return fn(ctx, tx)
		},
	})
}

// ResultStatusesTx re-reads the current result statuses for a job inside the
// aggregation transaction. No cached state is consulted.
func (r *AuditRepo) ResultStatusesTx(
	ctx context.Context,
	tx *sql.Tx,
	jobID string,
) ([]model.AuditStatus, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT status FROM audit_results WHERE job_id = $1`, jobID)
	if err != nil {
		return nil, fmt.Errorf("read result statuses for job %s: %w", jobID, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var statuses []model.AuditStatus
	for rows.Next() {
		var s model.AuditStatus
		if scanErr := rows.Scan(&s); scanErr != nil {
			return nil, fmt.Errorf("scan result status: %w", scanErr)
		}
		statuses = append(statuses, s)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate result statuses: %w", rowsErr)
	}
	return statuses, nil
}

// SetJobStatusTx persists an aggregation decision inside the locked transaction.
// Non-terminal writes are guarded on completed_at so a late running signal can
// never reopen a job the dispatch-failure path already closed.
func (r *AuditRepo) SetJobStatusTx(
	ctx context.Context,
	tx *sql.Tx,
	params core.SetJobStatusParams,
) error {
	var err error
	if params.Terminal {
		_, err = tx.ExecContext(ctx, `
			UPDATE audit_jobs
			SET status = $2, completed_at = COALESCE(completed_at, $3)
			WHERE id = $1`,
			params.JobID, params.Status, params.At.UTC())
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE audit_jobs SET status = $2 WHERE id = $1 AND completed_at IS NULL`,
			params.JobID, params.Status)
	}
	if err != nil {
		return fmt.Errorf("set job %s status %s: %w", params.JobID, params.Status, err)
	}
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for the scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditJob(row rowScanner) (*model.AuditJob, error) {
	var job model.AuditJob
	var regionsJSON []byte
	if err := row.Scan(
		&job.ID,
		&job.URL,
		&job.Device,
		&regionsJSON,
		&job.RequesterIP,
		&job.OwnerID,
		&job.Status,
		&job.CreatedAt,
		&job.CompletedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(regionsJSON, &job.Regions); err != nil {
		return nil, fmt.Errorf("unmarshal regions: %w", err)
	}
	return &job, nil
}

func scanAuditResult(row rowScanner) (*model.AuditResult, error) {
	var res model.AuditResult
	if err := row.Scan(
		&res.ID,
		&res.JobID,
		&res.Region,
		&res.Status,
		&res.ReportURL,
		&res.MetricsURL,
		&res.Metrics.LCP,
		&res.Metrics.FCP,
		&res.Metrics.CLS,
		&res.Metrics.TBT,
		&res.Metrics.TTI,
		&res.Metrics.TTFB,
		&res.Metrics.PerformanceScore,
		&res.CreatedAt,
		&res.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &res, nil
}
