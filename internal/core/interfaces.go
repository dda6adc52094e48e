// Package core defines the ports between the service layer and its collaborators.
package core

import (
	"context"
	"database/sql"
	"time"

	"github.com/feru-app/beacon/internal/domain/model"
)

// This file contains repository and collaborator interface definitions (ports
// in hexagonal architecture). Service implementations should depend on these
// interfaces, not concrete implementations.

// LaunchRequest is the input handed to a TaskLauncher for one region.
// ResultID is an opaque correlation token the runner echoes back on its webhook.
type LaunchRequest struct {
	ResultID string
	URL      string
	Device   model.Device
	Region   string
}

// Launch describes a successfully started remote execution unit.
type Launch struct {
	// Handle identifies the remote execution unit (e.g. an ECS task ARN).
	Handle string
	Region string
	// CPU and Memory echo the resources granted to the task.
	CPU    int32
	Memory int32
}

// TaskLauncher starts one remote audit execution in a region.
// It is treated as unreliable: any error (including deadline expiry) is a
// launch failure; no retry happens below this interface.
type TaskLauncher interface {
	Launch(ctx context.Context, req LaunchRequest) (*Launch, error)
}

// SetJobStatusParams groups parameters for AuditRepository.SetJobStatusTx.
type SetJobStatusParams struct {
	JobID  string
	Status model.AuditStatus
	// Terminal stamps completed_at (exactly once; never cleared).
	Terminal bool
	At       time.Time
}

// AuditRepository defines the data operations for audit jobs and their per-region results.
type AuditRepository interface {
	// CreateWithResults atomically inserts the job row plus one pending result
	// row per region, fixing the region→result mapping before any dispatch.
	CreateWithResults(ctx context.Context, req *model.CreateAuditRequest) (*model.AuditJob, error)
	GetByID(ctx context.Context, id string) (*model.AuditJob, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.AuditJob, error)

	// SetResultFailed and SetJobFailed serve the dispatch-failure path.
	SetResultFailed(ctx context.Context, resultID string, at time.Time) error
	SetJobFailed(ctx context.Context, jobID string, at time.Time) error

	// WithJobLock runs fn inside a transaction holding a per-job advisory
	// lock, serializing status aggregation for that job across requests.
	WithJobLock(ctx context.Context, jobID string, fn func(context.Context, *sql.Tx) error) error
	ResultStatusesTx(ctx context.Context, tx *sql.Tx, jobID string) ([]model.AuditStatus, error)
	SetJobStatusTx(ctx context.Context, tx *sql.Tx, params SetJobStatusParams) error
}

// ApplyTerminalParams groups parameters for ResultRepository.ApplyTerminal.
type ApplyTerminalParams struct {
	ResultID   string
	Status     model.AuditStatus
	ReportURL  *string
	MetricsURL *string
	Metrics    model.Metrics
	At         time.Time
}

// ResultRepository defines the webhook-facing mutations on per-region results.
type ResultRepository interface {
	// JobIDForResult resolves the owning job, or a NotFound error.
	JobIDForResult(ctx context.Context, resultID string) (string, error)
	// ApplyTerminal applies a completed/failed transition with a guarded
	// update: rows already in a terminal state are left untouched and the
	// method reports false, making webhook replays idempotent.
	ApplyTerminal(ctx context.Context, params ApplyTerminalParams) (bool, error)
	// SetRunningByJobRegion marks every non-terminal result of the job in the
	// given region as running. Running signals correlate by job+region because
	// they may precede result-id correlation on the runner side.
	SetRunningByJobRegion(ctx context.Context, jobID, region string) (int, error)
}

// MonitorRepository defines the data operations for recurring monitors.
type MonitorRepository interface {
	Create(ctx context.Context, m *model.Monitor) error
	GetByID(ctx context.Context, id string) (*model.Monitor, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*model.Monitor, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Delete(ctx context.Context, id string) (bool, error)
	LinkJob(ctx context.Context, monitorID, jobID string) error
	TouchLastRun(ctx context.Context, id string, at time.Time) error
	FindDue(ctx context.Context, now time.Time, limit int) ([]*model.Monitor, error)
	// TryWithMonitorLock runs fn while holding a per-monitor advisory lock so
	// concurrent scheduler replicas never double-trigger the same entry.
	// Returns false without running fn when the lock is already held elsewhere.
	TryWithMonitorLock(ctx context.Context, monitorID string, fn func(context.Context) error) (bool, error)
}

// DeliveryDedupe is an optional cache recording webhook deliveries that were
// already applied, letting terminal replays be acknowledged cheaply. It is a
// best-effort optimization; the guarded result updates remain the source of
// idempotency.
type DeliveryDedupe interface {
	AlreadyDelivered(ctx context.Context, key string) (bool, error)
	MarkDelivered(ctx context.Context, key string, ttl time.Duration) error
}
