package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/data"
	"github.com/feru-app/beacon/internal/domain/model"
	"github.com/feru-app/beacon/internal/domain/status"
	apperrors "github.com/feru-app/beacon/internal/errors"
	"github.com/feru-app/beacon/internal/observability/metrics"
	"github.com/feru-app/beacon/internal/observability/statsd"
)

const defaultDedupeTTL = 24 * time.Hour

// WebhookServiceOptions groups dependencies for WebhookService.
type WebhookServiceOptions struct {
	Results      core.ResultRepository // Required: per-region result mutations
	Jobs         core.AuditRepository  // Required: job lock + aggregation persistence
	Extractor    *ReportExtractor      // Optional: raw-report metric fallback
	Dedupe       core.DeliveryDedupe   // Optional: replay short-circuit cache
	DedupeTTL    time.Duration         // Optional: replay record lifetime
	TimeProvider data.TimeProvider     // Optional: clock override for tests
	Logger       *slog.Logger          // Optional: structured logger
	Metrics      statsd.Sink           // Optional: metric sink
}

// ApplyOutcome reports what a webhook delivery changed.
type ApplyOutcome struct {
	JobID string
	// Applied is false when the delivery was a replay and changed nothing.
	Applied bool
	// JobStatus is the job status after re-aggregation.
	JobStatus model.AuditStatus
}

// WebhookService ingests result updates posted back by regional runners and
// re-aggregates the owning job's status after every applied change.
type WebhookService struct {
	results      core.ResultRepository
	jobs         core.AuditRepository
	extractor    *ReportExtractor
	dedupe       core.DeliveryDedupe
	dedupeTTL    time.Duration
	timeProvider data.TimeProvider
	logger       *slog.Logger
	metrics      statsd.Sink
}

// NewWebhookService constructs a new WebhookService.
func NewWebhookService(opts WebhookServiceOptions) (*WebhookService, error) {
	if opts.Results == nil {
		return nil, errors.New("ResultRepository is required")
	}
	if opts.Jobs == nil {
		return nil, errors.New("AuditRepository is required")
	}

	ttl := opts.DedupeTTL
	if ttl <= 0 {
		ttl = defaultDedupeTTL
	}
	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}

	var logger *slog.Logger
	if opts.Logger != nil {
		logger = opts.Logger.With("component", "webhook_service")
	}

	return &WebhookService{
		results:      opts.Results,
		jobs:         opts.Jobs,
		extractor:    opts.Extractor,
		dedupe:       opts.Dedupe,
		dedupeTTL:    ttl,
		timeProvider: tp,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

// MustNewWebhookService constructs a new WebhookService and panics on error.
func MustNewWebhookService(opts WebhookServiceOptions) *WebhookService {
	svc, err := NewWebhookService(opts)
	if err != nil {
		//nolint:forbidigo // Must constructor fails fast when dependencies are invalid during startup
		panic(fmt.Sprintf("failed to create WebhookService: %v", err))
	}
	return svc
}

// Apply validates and applies one runner update, then re-derives the owning
// job's status under the per-job lock. Replayed terminal deliveries are
// acknowledged without effect: the guarded result update skips rows already
// terminal, and the optional dedupe cache short-circuits before the database.
func (s *WebhookService) Apply(ctx context.Context, update *model.ResultUpdate) (*ApplyOutcome, error) {
	if update == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := update.Validate(); err != nil {
		s.emit(string(update.Status), metrics.ResultError, err)
		return nil, apperrors.Validation(err.Error())
	}

	jobID, err := s.results.JobIDForResult(ctx, update.ResultID)
	if err != nil {
		if errors.Is(err, data.ErrResultNotFound) {
			s.emit(string(update.Status), metrics.ResultError, nil)
			return nil, apperrors.NotFoundf("result %s not found", update.ResultID)
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "resolve result")
	}

	if update.Status.Terminal() && s.replayed(ctx, update) {
		s.emit(string(update.Status), metrics.ResultNoop, nil)
		return &ApplyOutcome{JobID: jobID}, nil
	}

	applied, err := s.applyUpdate(ctx, jobID, update)
	if err != nil {
		s.emit(string(update.Status), metrics.ResultError, err)
		return nil, err
	}

	jobStatus, err := s.reaggregate(ctx, jobID)
	if err != nil {
		return nil, err
	}

	if applied && update.Status.Terminal() {
		s.record(ctx, update)
	}

	result := metrics.ResultSuccess
	if !applied {
		result = metrics.ResultNoop
	}
	s.emit(string(update.Status), result, nil)

	if s.logger != nil {
		s.logger.InfoContext(ctx, "webhook applied",
			"job_id", jobID, "result_id", update.ResultID,
			"status", update.Status, "applied", applied, "job_status", jobStatus)
	}

	return &ApplyOutcome{JobID: jobID, Applied: applied, JobStatus: jobStatus}, nil
}

// applyUpdate routes the update to the right mutation for its status.
func (s *WebhookService) applyUpdate(
	ctx context.Context,
	jobID string,
	update *model.ResultUpdate,
) (bool, error) {
	now := s.timeProvider.Now().UTC()

	switch update.Status {
	case model.StatusRunning:
		if update.Region == "" {
			return false, apperrors.Validation("region is required for running updates")
		}
		n, err := s.results.SetRunningByJobRegion(ctx, jobID, update.Region)
		if err != nil {
			return false, apperrors.Wrap(err, apperrors.ErrCodeInternal, "mark result running")
		}
		return n > 0, nil

	case model.StatusCompleted:
		reported := update.Metrics
		if s.extractor != nil && len(update.RawReport) > 0 {
			extracted, exErr := s.extractor.Extract(update.RawReport)
			if exErr != nil {
				if s.logger != nil {
					s.logger.WarnContext(ctx, "raw report extraction failed",
						"result_id", update.ResultID, "error", exErr)
				}
			} else {
				reported = MergeMetrics(reported, extracted)
			}
		}
		applied, err := s.results.ApplyTerminal(ctx, core.ApplyTerminalParams{
			ResultID:   update.ResultID,
			Status:     model.StatusCompleted,
			ReportURL:  update.ReportURL,
			MetricsURL: update.MetricsJSONURL,
			Metrics:    reported,
			At:         now,
		})
		if err != nil {
			return false, apperrors.Wrap(err, apperrors.ErrCodeInternal, "complete result")
		}
		return applied, nil

	case model.StatusFailed:
		applied, err := s.results.ApplyTerminal(ctx, core.ApplyTerminalParams{
			ResultID: update.ResultID,
			Status:   model.StatusFailed,
			At:       now,
		})
		if err != nil {
			return false, apperrors.Wrap(err, apperrors.ErrCodeInternal, "fail result")
		}
		return applied, nil

	case model.StatusPending, model.StatusPartial:
		return false, apperrors.Validationf("status %q cannot be reported", update.Status)
	}
	return false, apperrors.Validationf("status %q cannot be reported", update.Status)
}

// reaggregate re-reads the job's result statuses under the per-job advisory
// lock and persists the derived job status. It always runs, even after a noop
// update, so a lost earlier transition is repaired by the next delivery.
// When the aggregator decides no transition, the job's persisted status is
// reported instead.
func (s *WebhookService) reaggregate(ctx context.Context, jobID string) (model.AuditStatus, error) {
	var decided model.AuditStatus
	transitioned := false

	err := s.jobs.WithJobLock(ctx, jobID, func(ctx context.Context, tx *sql.Tx) error {
		statuses, readErr := s.jobs.ResultStatusesTx(ctx, tx, jobID)
		if readErr != nil {
			return readErr
		}
		decision := status.Aggregate(statuses)
		if !decision.Transition {
			return nil
		}
		transitioned = true
		decided = decision.Status
		if setErr := s.jobs.SetJobStatusTx(ctx, tx, core.SetJobStatusParams{
			JobID:    jobID,
			Status:   decision.Status,
			Terminal: decision.Terminal,
			At:       s.timeProvider.Now().UTC(),
		}); setErr != nil {
			return setErr
		}
		metrics.EmitJobTransition(s.metrics, string(decision.Status), decision.Terminal)
		return nil
	})
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeInternal, "aggregate job status")
	}
	if !transitioned {
		job, getErr := s.jobs.GetByID(ctx, jobID)
		if getErr != nil {
			return "", apperrors.Wrap(getErr, apperrors.ErrCodeInternal, "read job status")
		}
		return job.Status, nil
	}
	return decided, nil
}

func dedupeKey(update *model.ResultUpdate) string {
	return update.ResultID + ":" + string(update.Status)
}

// replayed consults the dedupe cache. Cache errors are logged and ignored so
// Redis downtime never blocks ingestion.
func (s *WebhookService) replayed(ctx context.Context, update *model.ResultUpdate) bool {
	if s.dedupe == nil {
		return false
	}
	seen, err := s.dedupe.AlreadyDelivered(ctx, dedupeKey(update))
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "dedupe lookup failed",
				"result_id", update.ResultID, "error", err)
		}
		return false
	}
	return seen
}

func (s *WebhookService) record(ctx context.Context, update *model.ResultUpdate) {
	if s.dedupe == nil {
		return
	}
	if err := s.dedupe.MarkDelivered(ctx, dedupeKey(update), s.dedupeTTL); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "dedupe record failed",
			"result_id", update.ResultID, "error", err)
	}
}

func (s *WebhookService) emit(statusTag, result string, err error) {
	metrics.EmitWebhook(s.metrics, metrics.WebhookMetric{
		Status: statusTag,
		Result: result,
		Err:    err,
	})
}
