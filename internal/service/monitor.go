package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/data"
	"github.com/feru-app/beacon/internal/domain/model"
	apperrors "github.com/feru-app/beacon/internal/errors"
)

// DefaultFreeTierMonitorLimit caps how many monitors a free-tier owner may keep.
const DefaultFreeTierMonitorLimit = 2

// MonitorServiceOptions groups dependencies for MonitorService.
type MonitorServiceOptions struct {
	Repo          core.MonitorRepository // Required: monitor repository
	Audits        *AuditService          // Required: job creation + dispatch
	FreeTierLimit int                    // Optional: free-tier monitor cap
	TimeProvider  data.TimeProvider      // Optional: clock override for tests
	Logger        *slog.Logger           // Optional: structured logger
}

// MonitorService manages saved recurring audit configurations and turns a due
// or explicitly triggered monitor into a fresh audit job.
type MonitorService struct {
	repo          core.MonitorRepository
	audits        *AuditService
	freeTierLimit int
	timeProvider  data.TimeProvider
	logger        *slog.Logger
}

// NewMonitorService constructs a new MonitorService.
func NewMonitorService(opts MonitorServiceOptions) (*MonitorService, error) {
	if opts.Repo == nil {
		return nil, errors.New("MonitorRepository is required")
	}
	if opts.Audits == nil {
		return nil, errors.New("AuditService is required")
	}

	limit := opts.FreeTierLimit
	if limit <= 0 {
		limit = DefaultFreeTierMonitorLimit
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "monitor_service")
	}

	return &MonitorService{
		repo:          opts.Repo,
		audits:        opts.Audits,
		freeTierLimit: limit,
		timeProvider:  tp,
		logger:        logger,
	}, nil
}

// MustNewMonitorService constructs a new MonitorService and panics on error.
func MustNewMonitorService(opts MonitorServiceOptions) *MonitorService {
	svc, err := NewMonitorService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create MonitorService: %v", err))
	}
	return svc
}

// Create validates and persists a new monitor, enforcing the per-owner quota
// for free-tier callers. Paid tiers are uncapped.
func (s *MonitorService) Create(
	ctx context.Context,
	req *model.CreateMonitorRequest,
	ownerTier string,
) (*model.Monitor, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	req.URL = model.NormalizeURL(req.URL)
	interval, err := req.Validate()
	if err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	if ownerTier == "" || ownerTier == model.OwnerTierFree {
		count, countErr := s.repo.CountByOwner(ctx, req.OwnerID)
		if countErr != nil {
			return nil, apperrors.Wrap(countErr, apperrors.ErrCodeInternal, "count monitors")
		}
		if count >= s.freeTierLimit {
			return nil, apperrors.Quota(
				fmt.Sprintf("free tier allows at most %d monitors", s.freeTierLimit))
		}
	}

	monitor := &model.Monitor{
		ID:        uuid.NewString(),
		URL:       req.URL,
		Device:    req.Device,
		Type:      req.Type,
		Interval:  interval,
		OwnerID:   req.OwnerID,
		Regions:   req.Regions,
		Status:    model.MonitorStatusActive,
		CreatedAt: s.timeProvider.Now().UTC(),
	}
	if createErr := s.repo.Create(ctx, monitor); createErr != nil {
		// Database errors the repo already classified keep their code.
		if apperrors.GetCode(createErr) != "" {
			return nil, createErr
		}
		return nil, apperrors.Wrap(createErr, apperrors.ErrCodeInternal, "create monitor")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "monitor created",
			"monitor_id", monitor.ID, "owner_id", monitor.OwnerID,
			"url", monitor.URL, "interval", monitor.Interval)
	}
	return monitor, nil
}

// Trigger creates and dispatches a new audit job from the monitor's saved
// configuration, links the job back to the monitor, and stamps the run time.
//
// The job is linked and the run time stamped even when dispatch fails
// partway: the failed job is still this monitor's most recent run, and the
// next attempt waits a full interval instead of hot-looping on a broken
// region.
func (s *MonitorService) Trigger(ctx context.Context, monitorID string) (*model.AuditJob, error) {
	monitor, err := s.getMonitor(ctx, monitorID)
	if err != nil {
		return nil, err
	}
	if monitor.Type != model.MonitorTypeLighthouse {
		return nil, apperrors.Validationf("monitor type %q cannot be triggered", monitor.Type)
	}

	owner := monitor.OwnerID
	job, dispatchErr := s.audits.CreateAndDispatch(ctx, &model.CreateAuditRequest{
		URL:     monitor.URL,
		Device:  monitor.Device,
		Regions: monitor.Regions,
		OwnerID: &owner,
	})

	if job != nil {
		if linkErr := s.repo.LinkJob(ctx, monitor.ID, job.ID); linkErr != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to link monitor job",
				"monitor_id", monitor.ID, "job_id", job.ID, "error", linkErr)
		}
		now := s.timeProvider.Now().UTC()
		if touchErr := s.repo.TouchLastRun(ctx, monitor.ID, now); touchErr != nil && s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to stamp monitor run",
				"monitor_id", monitor.ID, "error", touchErr)
		}
	}
	if dispatchErr != nil {
		return job, dispatchErr
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "monitor triggered",
			"monitor_id", monitor.ID, "job_id", job.ID)
	}
	return job, nil
}

// TriggerOwned is Trigger with an ownership check for the API path.
func (s *MonitorService) TriggerOwned(
	ctx context.Context,
	monitorID, ownerID string,
) (*model.AuditJob, error) {
	monitor, err := s.getMonitor(ctx, monitorID)
	if err != nil {
		return nil, err
	}
	if monitor.OwnerID != ownerID {
		// Hidden rather than forbidden so ids cannot be probed.
		return nil, apperrors.NotFoundf("monitor %s not found", monitorID)
	}
	return s.Trigger(ctx, monitorID)
}

// List returns the owner's monitors, newest first.
func (s *MonitorService) List(ctx context.Context, ownerID string) ([]*model.Monitor, error) {
	if ownerID == "" {
		return nil, apperrors.Validation("owner id is required")
	}
	monitors, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "list monitors")
	}
	return monitors, nil
}

// Delete removes the owner's monitor. Linked historical jobs survive; only the
// monitor row and its job links go away.
func (s *MonitorService) Delete(ctx context.Context, monitorID, ownerID string) error {
	monitor, err := s.getMonitor(ctx, monitorID)
	if err != nil {
		return err
	}
	if monitor.OwnerID != ownerID {
		return apperrors.NotFoundf("monitor %s not found", monitorID)
	}

	deleted, err := s.repo.Delete(ctx, monitorID)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "delete monitor")
	}
	if !deleted {
		return apperrors.NotFoundf("monitor %s not found", monitorID)
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "monitor deleted", "monitor_id", monitorID)
	}
	return nil
}

// RunDue triggers every due monitor once, serialized per monitor by an
// advisory lock so concurrent scheduler replicas never double-fire. Returns
// due, triggered, and failed counts for the caller's metrics.
func (s *MonitorService) RunDue(ctx context.Context, limit int) (due, triggered, failed int, err error) {
	now := s.timeProvider.Now().UTC()
	monitors, err := s.repo.FindDue(ctx, now, limit)
	if err != nil {
		return 0, 0, 0, apperrors.Wrap(err, apperrors.ErrCodeInternal, "find due monitors")
	}
	due = len(monitors)

	for _, monitor := range monitors {
		if ctx.Err() != nil {
			return due, triggered, failed, ctx.Err()
		}

		acquired, lockErr := s.repo.TryWithMonitorLock(ctx, monitor.ID, func(ctx context.Context) error {
			// Re-check inside the lock: a concurrent replica may have just run it.
			current, getErr := s.getMonitor(ctx, monitor.ID)
			if getErr != nil {
				return getErr
			}
			if !current.Due(now) {
				return nil
			}
			_, triggerErr := s.Trigger(ctx, monitor.ID)
			return triggerErr
		})
		switch {
		case lockErr != nil:
			failed++
			if s.logger != nil {
				s.logger.ErrorContext(ctx, "monitor trigger failed",
					"monitor_id", monitor.ID, "error", lockErr)
			}
		case acquired:
			triggered++
		}
	}
	return due, triggered, failed, nil
}

func (s *MonitorService) getMonitor(ctx context.Context, monitorID string) (*model.Monitor, error) {
	monitor, err := s.repo.GetByID(ctx, monitorID)
	if err != nil {
		if errors.Is(err, data.ErrMonitorNotFound) {
			return nil, apperrors.NotFoundf("monitor %s not found", monitorID)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "get monitor")
	}
	return monitor, nil
}
