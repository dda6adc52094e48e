package data

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/data/pgxutil"
	"github.com/feru-app/beacon/internal/domain/model"
	apperrors "github.com/feru-app/beacon/internal/errors"
)

// MonitorRepo provides database operations for recurring monitors and their job links.
type MonitorRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
	logger       *slog.Logger
}

var _ core.MonitorRepository = (*MonitorRepo)(nil)

// NewMonitorRepo creates a new MonitorRepo instance with the given database connection and configuration.
func NewMonitorRepo(db *sql.DB, cfg RepoConfig) *MonitorRepo {
	tp := cfg.TimeProvider
	if tp == nil {
		tp = &RealTimeProvider{}
	}
	return &MonitorRepo{DB: db, timeProvider: tp, logger: cfg.Logger}
}

const monitorColumns = `
  id,
  url,
  device,
  type,
  interval_seconds,
  owner_id,
  regions,
  status,
  created_at,
  last_run_at
`

// Create inserts a new monitor row.
func (r *MonitorRepo) Create(ctx context.Context, m *model.Monitor) error {
	regionsJSON, err := json.Marshal(m.Regions)
	if err != nil {
		return fmt.Errorf("marshal regions: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, `
		INSERT INTO monitors (id, url, device, type, interval_seconds, owner_id, regions, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.URL, m.Device, m.Type, int64(m.Interval/time.Second),
		m.OwnerID, regionsJSON, m.Status, m.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("insert monitor: %w", apperrors.MapDBError(err))
	}
	return nil
}

// GetByID returns a monitor by id.
func (r *MonitorRepo) GetByID(ctx context.Context, id string) (*model.Monitor, error) {
	row := r.DB.QueryRowContext(ctx,
		`SELECT `+monitorColumns+` FROM monitors WHERE id = $1`, id)
	m, err := scanMonitor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMonitorNotFound
		}
		return nil, fmt.Errorf("get monitor %s: %w", id, err)
	}
	return m, nil
}

// ListByOwner returns the owner's monitors, newest first.
func (r *MonitorRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Monitor, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+monitorColumns+` FROM monitors WHERE owner_id = $1 ORDER BY created_at DESC`,
		ownerID)
	if err != nil {
		return nil, fmt.Errorf("list monitors by owner: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	monitors := []*model.Monitor{}
	for rows.Next() {
		m, scanErr := scanMonitor(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan monitor: %w", scanErr)
		}
		monitors = append(monitors, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate monitors: %w", rowsErr)
	}
	return monitors, nil
}

// CountByOwner returns the owner's current number of monitors, for quota checks.
func (r *MonitorRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM monitors WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count monitors by owner: %w", err)
	}
	return count, nil
}

// Delete removes a monitor. Historical job links go with it (ON DELETE CASCADE);
// the jobs themselves are never deleted.
func (r *MonitorRepo) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM monitors WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete monitor %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// LinkJob records that a job was created by a monitor run. A job links to at
// most one monitor, so relinking surfaces as a conflict and linking against a
// deleted monitor as a foreign key error.
func (r *MonitorRepo) LinkJob(ctx context.Context, monitorID, jobID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO monitor_jobs (monitor_id, job_id, created_at)
		VALUES ($1, $2, $3)`,
		monitorID, jobID, r.timeProvider.Now().UTC())
	if err != nil {
		return fmt.Errorf("link job %s to monitor %s: %w", jobID, monitorID, apperrors.MapDBError(err))
	}
	return nil
}

// TouchLastRun updates the monitor's last_run_at timestamp.
func (r *MonitorRepo) TouchLastRun(ctx context.Context, id string, at time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE monitors SET last_run_at = $2 WHERE id = $1`, id, at.UTC())
	if err != nil {
		return fmt.Errorf("touch last_run_at for monitor %s: %w", id, err)
	}
	return nil
}

// FindDue returns active monitors whose interval has elapsed since their last run.
func (r *MonitorRepo) FindDue(
	ctx context.Context,
	now time.Time,
	limit int,
) ([]*model.Monitor, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+monitorColumns+`
		FROM monitors
		WHERE status = 'active'
		  AND (last_run_at IS NULL OR last_run_at + make_interval(secs => interval_seconds) <= $1)
		ORDER BY last_run_at ASC NULLS FIRST
		LIMIT $2`,
		now.UTC(), limit)
	if err != nil {
		return nil, fmt.Errorf("find due monitors: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var due []*model.Monitor
	for rows.Next() {
		m, scanErr := scanMonitor(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan due monitor: %w", scanErr)
		}
		due = append(due, m)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("iterate due monitors: %w", rowsErr)
	}
	return due, nil
}

// TryWithMonitorLock attempts to acquire a per-monitor advisory lock and runs
// fn while the lock is held. Returns false without running fn when another
// replica holds the lock, so scheduled triggers are never duplicated.
func (r *MonitorRepo) TryWithMonitorLock(
	ctx context.Context,
	monitorID string,
	fn func(context.Context) error,
) (bool, error) {
	lockKey := fnvHash("monitor:" + monitorID)
	locked := false
	err := pgxutil.WithSQLTx(ctx, r.DB, pgxutil.SQLTxConfig{
		Fn: func(tx *sql.Tx) error {
			if lockErr := tx.QueryRowContext(ctx,
				`SELECT pg_try_advisory_xact_lock($1)`, lockKey).Scan(&locked); lockErr != nil {
				return fmt.Errorf("acquire advisory lock for monitor %s: %w", monitorID, lockErr)
			}
			if !locked {
				return nil
			}
			return fn(ctx)
		},
	})
	if err != nil {
		return locked, err
	}
	return locked, nil
}

func scanMonitor(row rowScanner) (*model.Monitor, error) {
	var m model.Monitor
	var intervalSeconds int64
	var regionsJSON []byte
	if err := row.Scan(
		&m.ID,
		&m.URL,
		&m.Device,
		&m.Type,
		&intervalSeconds,
		&m.OwnerID,
		&regionsJSON,
		&m.Status,
		&m.CreatedAt,
		&m.LastRunAt,
	); err != nil {
		return nil, err
	}
	m.Interval = time.Duration(intervalSeconds) * time.Second
	if err := json.Unmarshal(regionsJSON, &m.Regions); err != nil {
		return nil, fmt.Errorf("unmarshal regions: %w", err)
	}
	return &m, nil
}
