package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/data"
	"github.com/feru-app/beacon/internal/domain/model"
	apperrors "github.com/feru-app/beacon/internal/errors"
)

type mockResultRepo struct {
	mock.Mock
}

func (m *mockResultRepo) JobIDForResult(ctx context.Context, resultID string) (string, error) {
	args := m.Called(ctx, resultID)
	return args.String(0), args.Error(1)
}

func (m *mockResultRepo) ApplyTerminal(ctx context.Context, params core.ApplyTerminalParams) (bool, error) {
	args := m.Called(ctx, params)
	return args.Bool(0), args.Error(1)
}

func (m *mockResultRepo) SetRunningByJobRegion(ctx context.Context, jobID, region string) (int, error) {
	args := m.Called(ctx, jobID, region)
	return args.Int(0), args.Error(1)
}

type mockDedupe struct {
	mock.Mock
}

func (m *mockDedupe) AlreadyDelivered(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *mockDedupe) MarkDelivered(ctx context.Context, key string, ttl time.Duration) error {
	args := m.Called(ctx, key, ttl)
	return args.Error(0)
}

type webhookFixture struct {
	results *mockResultRepo
	jobs    *mockAuditRepo
	dedupe  *mockDedupe
	svc     *WebhookService
}

func newWebhookFixture(t *testing.T, withDedupe bool) *webhookFixture {
	t.Helper()
	f := &webhookFixture{
		results: &mockResultRepo{},
		jobs:    &mockAuditRepo{},
	}
	extractor, err := NewReportExtractor(DefaultMetricExpressions())
	require.NoError(t, err)

	opts := WebhookServiceOptions{
		Results:      f.results,
		Jobs:         f.jobs,
		Extractor:    extractor,
		TimeProvider: data.NewFixedTimeProvider(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	if withDedupe {
		f.dedupe = &mockDedupe{}
		opts.Dedupe = f.dedupe
	}
	f.svc, err = NewWebhookService(opts)
	require.NoError(t, err)
	return f
}

// expectAggregation wires the lock, status read, and optional job write that
// every applied update triggers.
func (f *webhookFixture) expectAggregation(jobID string, statuses []model.AuditStatus, write *core.SetJobStatusParams) {
	f.jobs.On("WithJobLock", mock.Anything, jobID, mock.Anything).Return(nil)
	f.jobs.On("ResultStatusesTx", mock.Anything, mock.Anything, jobID).Return(statuses, nil)
	if write != nil {
		f.jobs.On("SetJobStatusTx", mock.Anything, mock.Anything, *write).Return(nil)
	}
}

func TestWebhookServiceApply(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("completed update closes the result and the job", func(t *testing.T) {
		f := newWebhookFixture(t, false)
		lcp := 1234.5
		update := &model.ResultUpdate{
			ResultID: "result-a",
			Status:   model.StatusCompleted,
			Metrics:  model.Metrics{LCP: &lcp},
		}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)
		f.results.On("ApplyTerminal", ctx, mock.MatchedBy(func(p core.ApplyTerminalParams) bool {
			return p.ResultID == "result-a" &&
				p.Status == model.StatusCompleted &&
				p.Metrics.LCP != nil && *p.Metrics.LCP == lcp &&
				p.At.Equal(now)
		})).Return(true, nil)
		f.expectAggregation("job-1",
			[]model.AuditStatus{model.StatusCompleted},
			&core.SetJobStatusParams{
				JobID: "job-1", Status: model.StatusCompleted, Terminal: true, At: now,
			})

		outcome, err := f.svc.Apply(ctx, update)
		require.NoError(t, err)
		assert.True(t, outcome.Applied)
		assert.Equal(t, "job-1", outcome.JobID)
		assert.Equal(t, model.StatusCompleted, outcome.JobStatus)
		f.results.AssertExpectations(t)
		f.jobs.AssertExpectations(t)
	})

	t.Run("raw report fills metrics the flat fields omit", func(t *testing.T) {
		f := newWebhookFixture(t, false)
		flatLCP := 999.0
		update := &model.ResultUpdate{
			ResultID:  "result-a",
			Status:    model.StatusCompleted,
			Metrics:   model.Metrics{LCP: &flatLCP},
			RawReport: json.RawMessage(sampleLighthouseReport),
		}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)
		f.results.On("ApplyTerminal", ctx, mock.MatchedBy(func(p core.ApplyTerminalParams) bool {
			// Flat LCP wins; FCP comes from the raw report.
			return p.Metrics.LCP != nil && *p.Metrics.LCP == flatLCP &&
				p.Metrics.FCP != nil && *p.Metrics.FCP == 901.2
		})).Return(true, nil)
		f.expectAggregation("job-1",
			[]model.AuditStatus{model.StatusCompleted},
			&core.SetJobStatusParams{
				JobID: "job-1", Status: model.StatusCompleted, Terminal: true, At: now,
			})

		_, err := f.svc.Apply(ctx, update)
		require.NoError(t, err)
		f.results.AssertExpectations(t)
	})

	t.Run("replayed terminal delivery on an already terminal row is a noop", func(t *testing.T) {
		f := newWebhookFixture(t, false)
		update := &model.ResultUpdate{ResultID: "result-a", Status: model.StatusFailed}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)
		f.results.On("ApplyTerminal", ctx, mock.Anything).Return(false, nil)
		// Aggregation still runs so a lost earlier transition gets repaired.
		f.expectAggregation("job-1",
			[]model.AuditStatus{model.StatusFailed},
			&core.SetJobStatusParams{
				JobID: "job-1", Status: model.StatusFailed, Terminal: true, At: now,
			})

		outcome, err := f.svc.Apply(ctx, update)
		require.NoError(t, err)
		assert.False(t, outcome.Applied)
		f.jobs.AssertExpectations(t)
	})

	t.Run("dedupe cache short-circuits a replay before the database", func(t *testing.T) {
		f := newWebhookFixture(t, true)
		update := &model.ResultUpdate{ResultID: "result-a", Status: model.StatusCompleted}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)
		f.dedupe.On("AlreadyDelivered", ctx, "result-a:completed").Return(true, nil)

		outcome, err := f.svc.Apply(ctx, update)
		require.NoError(t, err)
		assert.False(t, outcome.Applied)
		assert.Equal(t, "job-1", outcome.JobID)
		f.results.AssertNotCalled(t, "ApplyTerminal", mock.Anything, mock.Anything)
		f.jobs.AssertNotCalled(t, "WithJobLock", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("dedupe errors never block ingestion", func(t *testing.T) {
		f := newWebhookFixture(t, true)
		update := &model.ResultUpdate{ResultID: "result-a", Status: model.StatusCompleted}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)
		f.dedupe.On("AlreadyDelivered", ctx, "result-a:completed").
			Return(false, errors.New("redis down"))
		f.results.On("ApplyTerminal", ctx, mock.Anything).Return(true, nil)
		f.expectAggregation("job-1",
			[]model.AuditStatus{model.StatusCompleted},
			&core.SetJobStatusParams{
				JobID: "job-1", Status: model.StatusCompleted, Terminal: true, At: now,
			})
		f.dedupe.On("MarkDelivered", ctx, "result-a:completed", mock.Anything).Return(nil)

		outcome, err := f.svc.Apply(ctx, update)
		require.NoError(t, err)
		assert.True(t, outcome.Applied)
	})

	t.Run("applied terminal delivery is recorded for future replays", func(t *testing.T) {
		f := newWebhookFixture(t, true)
		update := &model.ResultUpdate{ResultID: "result-a", Status: model.StatusFailed}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)
		f.dedupe.On("AlreadyDelivered", ctx, "result-a:failed").Return(false, nil)
		f.results.On("ApplyTerminal", ctx, mock.Anything).Return(true, nil)
		f.expectAggregation("job-1",
			[]model.AuditStatus{model.StatusFailed, model.StatusPending}, nil)
		f.jobs.On("GetByID", ctx, "job-1").
			Return(&model.AuditJob{ID: "job-1", Status: model.StatusRunning}, nil)
		f.dedupe.On("MarkDelivered", ctx, "result-a:failed", defaultDedupeTTL).Return(nil)

		_, err := f.svc.Apply(ctx, update)
		require.NoError(t, err)
		f.dedupe.AssertExpectations(t)
	})

	t.Run("no transition reports the persisted job status", func(t *testing.T) {
		f := newWebhookFixture(t, false)
		update := &model.ResultUpdate{ResultID: "result-a", Status: model.StatusFailed}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)
		f.results.On("ApplyTerminal", ctx, mock.Anything).Return(true, nil)
		f.expectAggregation("job-1",
			[]model.AuditStatus{model.StatusFailed, model.StatusPending}, nil)
		f.jobs.On("GetByID", ctx, "job-1").
			Return(&model.AuditJob{ID: "job-1", Status: model.StatusRunning}, nil)

		outcome, err := f.svc.Apply(ctx, update)
		require.NoError(t, err)
		assert.True(t, outcome.Applied)
		assert.Equal(t, model.StatusRunning, outcome.JobStatus)
		f.jobs.AssertNotCalled(t, "SetJobStatusTx", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("running update requires a region", func(t *testing.T) {
		f := newWebhookFixture(t, false)
		update := &model.ResultUpdate{ResultID: "result-a", Status: model.StatusRunning}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)

		_, err := f.svc.Apply(ctx, update)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("running update marks the region's results by job and region", func(t *testing.T) {
		f := newWebhookFixture(t, false)
		update := &model.ResultUpdate{
			ResultID: "result-a",
			Status:   model.StatusRunning,
			Region:   "us-east-1",
		}

		f.results.On("JobIDForResult", ctx, "result-a").Return("job-1", nil)
		f.results.On("SetRunningByJobRegion", ctx, "job-1", "us-east-1").Return(1, nil)
		f.expectAggregation("job-1",
			[]model.AuditStatus{model.StatusRunning, model.StatusPending},
			&core.SetJobStatusParams{
				JobID: "job-1", Status: model.StatusRunning, At: now,
			})

		outcome, err := f.svc.Apply(ctx, update)
		require.NoError(t, err)
		assert.True(t, outcome.Applied)
		assert.Equal(t, model.StatusRunning, outcome.JobStatus)
	})

	t.Run("unknown result id is not found", func(t *testing.T) {
		f := newWebhookFixture(t, false)
		update := &model.ResultUpdate{ResultID: "ghost", Status: model.StatusCompleted}

		f.results.On("JobIDForResult", ctx, "ghost").Return("", data.ErrResultNotFound)

		_, err := f.svc.Apply(ctx, update)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("invalid payloads are rejected before any lookup", func(t *testing.T) {
		f := newWebhookFixture(t, false)

		_, err := f.svc.Apply(ctx, &model.ResultUpdate{Status: model.StatusCompleted})
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))

		_, err = f.svc.Apply(ctx, nil)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))

		f.results.AssertNotCalled(t, "JobIDForResult", mock.Anything, mock.Anything)
	})
}
