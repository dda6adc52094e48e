package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/domain/model"
)

// ResultRepo provides the webhook-facing database operations on per-region results.
type ResultRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

var _ core.ResultRepository = (*ResultRepo)(nil)

// NewResultRepo creates a new ResultRepo instance with the given database connection and configuration.
func NewResultRepo(db *sql.DB, cfg RepoConfig) *ResultRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &ResultRepo{DB: db, timeProvider: tp, logger: cfg.Logger}
}

// JobIDForResult resolves the owning job for a result id.
func (r *ResultRepo) JobIDForResult(ctx context.Context, resultID string) (string, error) {
	var jobID string
	err := r.DB.QueryRowContext(ctx,
		`SELECT job_id FROM audit_results WHERE id = $1`, resultID).Scan(&jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrResultNotFound
		}
		return "", fmt.Errorf("resolve job for result %s: %w", resultID, err)
	}
	return jobID, nil
}

// ApplyTerminal applies a completed/failed transition with a guarded update.
// Rows already terminal are untouched and the method reports false, which
// makes replayed webhook deliveries a no-op in observable effect.
func (r *ResultRepo) ApplyTerminal(
	ctx context.Context,
	params core.ApplyTerminalParams,
) (bool, error) {
	if !params.Status.Terminal() {
		return false, fmt.Errorf("status %s is not terminal", params.Status)
	}

	var (
		res sql.Result
		err error
	)
	at := params.At.UTC()
	if params.Status == model.StatusCompleted {
		res, err = r.DB.ExecContext(ctx, `
			UPDATE audit_results
			SET status = 'completed',
			    completed_at = COALESCE(completed_at, $2),
			    report_url = $3,
			    metrics_url = $4,
			    lcp = $5,
			    fcp = $6,
			    cls = $7,
			    tbt = $8,
			    tti = $9,
			    ttfb = $10,
			    performance_score = $11
			WHERE id = $1 AND status NOT IN ('completed', 'failed')`,
			params.ResultID, at,
			params.ReportURL, params.MetricsURL,
			params.Metrics.LCP, params.Metrics.FCP, params.Metrics.CLS,
			params.Metrics.TBT, params.Metrics.TTI, params.Metrics.TTFB,
			params.Metrics.PerformanceScore)
	} else {
		res, err = r.DB.ExecContext(ctx, `
			UPDATE audit_results
			SET status = 'failed', completed_at = COALESCE(completed_at, $2)
			WHERE id = $1 AND status NOT IN ('completed', 'failed')`,
			params.ResultID, at)
	}
	if err != nil {
		return false, fmt.Errorf("apply %s to result %s: %w", params.Status, params.ResultID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}

	if r.logger != nil && affected == 0 {
		r.logger.DebugContext(ctx, "terminal webhook replayed for terminal result",
			"result_id", params.ResultID, "status", params.Status)
	}

	return affected > 0, nil
}

// SetRunningByJobRegion marks every non-terminal result of the job in the given
// region as running. Running signals correlate by job+region because a runner
// may emit them before it has learned its result id.
func (r *ResultRepo) SetRunningByJobRegion(
	ctx context.Context,
	jobID, region string,
) (int, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE audit_results
		SET status = 'running'
		WHERE job_id = $1 AND region = $2 AND status NOT IN ('completed', 'failed')`,
		jobID, region)
	if err != nil {
		return 0, fmt.Errorf("mark running for job %s region %s: %w", jobID, region, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}
