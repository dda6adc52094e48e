package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/data"
	"github.com/feru-app/beacon/internal/domain/model"
	apperrors "github.com/feru-app/beacon/internal/errors"
	"github.com/feru-app/beacon/internal/observability/metrics"
	"github.com/feru-app/beacon/internal/observability/statsd"
)

const defaultLaunchTimeout = 30 * time.Second

// AuditServiceOptions groups dependencies for AuditService.
type AuditServiceOptions struct {
	Repo           core.AuditRepository // Required: audit job repository
	Launcher       core.TaskLauncher    // Required: regional task launcher
	AllowedRegions []string             // Required: regions requests may target
	LaunchTimeout  time.Duration        // Optional: per-region launch deadline
	TimeProvider   data.TimeProvider    // Optional: clock override for tests
	Logger         *slog.Logger         // Optional: structured logger
	Metrics        statsd.Sink          // Optional: metric sink
}

// AuditService owns the audit job lifecycle: creation, sequential regional
// dispatch with abort on first failure, and read access.
type AuditService struct {
	repo          core.AuditRepository
	launcher      core.TaskLauncher
	allowed       map[string]struct{}
	launchTimeout time.Duration
	timeProvider  data.TimeProvider
	logger        *slog.Logger
	metrics       statsd.Sink
}

// NewAuditService constructs a new AuditService.
func NewAuditService(opts AuditServiceOptions) (*AuditService, error) {
	if opts.Repo == nil {
		return nil, errors.New("AuditRepository is required")
	}
	if opts.Launcher == nil {
		return nil, errors.New("TaskLauncher is required")
	}
	if len(opts.AllowedRegions) == 0 {
		return nil, errors.New("at least one allowed region is required")
	}

	allowed := make(map[string]struct{}, len(opts.AllowedRegions))
	for _, region := range opts.AllowedRegions {
		allowed[region] = struct{}{}
	}

	timeout := opts.LaunchTimeout
	if timeout <= 0 {
		timeout = defaultLaunchTimeout
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "audit_service")
	}

	return &AuditService{
		repo:          opts.Repo,
		launcher:      opts.Launcher,
		allowed:       allowed,
		launchTimeout: timeout,
		timeProvider:  tp,
		logger:        logger,
		metrics:       opts.Metrics,
	}, nil
}

// MustNewAuditService constructs a new AuditService and panics on error.
func MustNewAuditService(opts AuditServiceOptions) *AuditService {
	svc, err := NewAuditService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create AuditService: %v", err))
	}
	return svc
}

// CreateAndDispatch persists a new job with one pending result per region,
// then launches the regional tasks one at a time in the requested order.
//
// On the first launch failure the failing region's result and the whole job
// are marked failed, the remaining regions are never dispatched, and the
// partially-dispatched job is returned together with a dispatch error so
// callers can surface both.
func (s *AuditService) CreateAndDispatch(
	ctx context.Context,
	req *model.CreateAuditRequest,
) (*model.AuditJob, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	req.URL = model.NormalizeURL(req.URL)
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	for _, region := range req.Regions {
		if _, ok := s.allowed[region]; !ok {
			return nil, apperrors.Validationf("region %q is not available", region)
		}
	}

	job, err := s.repo.CreateWithResults(ctx, req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "create audit job")
	}

	if s.logger != nil {
		s.logger.InfoContext(ctx, "audit job created",
			"job_id", job.ID, "url", job.URL, "device", job.Device, "regions", job.Regions)
	}

	for _, res := range job.Results {
		if launchErr := s.launchRegion(ctx, job, res); launchErr != nil {
			s.abortDispatch(ctx, job, res)
			return job, apperrors.Dispatch(
				fmt.Sprintf("launch audit task in %s", res.Region), launchErr)
		}
	}

	return job, nil
}

// launchRegion starts one regional task under the configured deadline.
func (s *AuditService) launchRegion(
	ctx context.Context,
	job *model.AuditJob,
	res *model.AuditResult,
) error {
	launchCtx, cancel := context.WithTimeout(ctx, s.launchTimeout)
	defer cancel()

	started := time.Now()
	launch, err := s.launcher.Launch(launchCtx, core.LaunchRequest{
		ResultID: res.ID,
		URL:      job.URL,
		Device:   job.Device,
		Region:   res.Region,
	})
	elapsed := time.Since(started)

	if err != nil {
		metrics.EmitDispatch(s.metrics, metrics.DispatchMetric{
			Region: res.Region, Result: metrics.ResultError, Duration: elapsed, Err: err,
		})
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "audit task launch failed",
				"job_id", job.ID, "result_id", res.ID, "region", res.Region, "error", err)
		}
		return err
	}

	metrics.EmitDispatch(s.metrics, metrics.DispatchMetric{
		Region: res.Region, Result: metrics.ResultSuccess, Duration: elapsed,
	})
	if s.logger != nil {
		s.logger.InfoContext(ctx, "audit task launched",
			"job_id", job.ID, "result_id", res.ID, "region", res.Region, "handle", launch.Handle)
	}
	return nil
}

// abortDispatch marks the failing result and the job failed. Results for
// regions that were never dispatched stay pending; their regions are simply
// skipped, which the job-level failed status makes visible.
func (s *AuditService) abortDispatch(ctx context.Context, job *model.AuditJob, res *model.AuditResult) {
	now := s.timeProvider.Now().UTC()

	if err := s.repo.SetResultFailed(ctx, res.ID, now); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to mark result failed",
			"job_id", job.ID, "result_id", res.ID, "error", err)
	}
	if err := s.repo.SetJobFailed(ctx, job.ID, now); err != nil && s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to mark job failed",
			"job_id", job.ID, "error", err)
	}

	res.Status = model.StatusFailed
	res.CompletedAt = &now
	job.Status = model.StatusFailed
	job.CompletedAt = &now

	metrics.EmitJobTransition(s.metrics, string(model.StatusFailed), true)
}

// GetByID returns one job with its nested per-region results.
func (s *AuditService) GetByID(ctx context.Context, id string) (*model.AuditJob, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, data.ErrJobNotFound) {
			return nil, apperrors.NotFoundf("audit job %s not found", id)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "get audit job")
	}
	return job, nil
}

// ListByOwner returns the owner's jobs, newest first.
func (s *AuditService) ListByOwner(ctx context.Context, ownerID string) ([]*model.AuditJob, error) {
	if ownerID == "" {
		return nil, apperrors.Validation("owner id is required")
	}
	jobs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "list audit jobs")
	}
	return jobs, nil
}
