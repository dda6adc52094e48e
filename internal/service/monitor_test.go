package service

import (
	"context"
	"errors"
	"fmt"
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

type mockMonitorRepo struct {
	mock.Mock
}

func (m *mockMonitorRepo) Create(ctx context.Context, monitor *model.Monitor) error {
	args := m.Called(ctx, monitor)
	return args.Error(0)
}

func (m *mockMonitorRepo) GetByID(ctx context.Context, id string) (*model.Monitor, error) {
	args := m.Called(ctx, id)
	monitor, _ := args.Get(0).(*model.Monitor)
	return monitor, args.Error(1)
}

func (m *mockMonitorRepo) ListByOwner(ctx context.Context, ownerID string) ([]*model.Monitor, error) {
	args := m.Called(ctx, ownerID)
	monitors, _ := args.Get(0).([]*model.Monitor)
	return monitors, args.Error(1)
}

func (m *mockMonitorRepo) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

func (m *mockMonitorRepo) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockMonitorRepo) LinkJob(ctx context.Context, monitorID, jobID string) error {
	args := m.Called(ctx, monitorID, jobID)
	return args.Error(0)
}

func (m *mockMonitorRepo) TouchLastRun(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *mockMonitorRepo) FindDue(ctx context.Context, now time.Time, limit int) ([]*model.Monitor, error) {
	args := m.Called(ctx, now, limit)
	monitors, _ := args.Get(0).([]*model.Monitor)
	return monitors, args.Error(1)
}

func (m *mockMonitorRepo) TryWithMonitorLock(
	ctx context.Context,
	monitorID string,
	fn func(context.Context) error,
) (bool, error) {
	args := m.Called(ctx, monitorID, fn)
	if args.Bool(0) {
		return true, fn(ctx)
	}
	return false, args.Error(1)
}

type monitorFixture struct {
	repo      *mockMonitorRepo
	auditRepo *mockAuditRepo
	launcher  *mockLauncher
	clock     *data.FixedTimeProvider
	svc       *MonitorService
}

func newMonitorFixture(t *testing.T) *monitorFixture {
	t.Helper()
	f := &monitorFixture{
		repo:      &mockMonitorRepo{},
		auditRepo: &mockAuditRepo{},
		launcher:  &mockLauncher{},
		clock:     data.NewFixedTimeProvider(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	}
	audits, err := NewAuditService(AuditServiceOptions{
		Repo:           f.auditRepo,
		Launcher:       f.launcher,
		AllowedRegions: []string{"us-east-1", "eu-west-1"},
		TimeProvider:   f.clock,
	})
	require.NoError(t, err)

	f.svc, err = NewMonitorService(MonitorServiceOptions{
		Repo:         f.repo,
		Audits:       audits,
		TimeProvider: f.clock,
	})
	require.NoError(t, err)
	return f
}

func activeMonitor(id, owner string) *model.Monitor {
	return &model.Monitor{
		ID:       id,
		URL:      "https://example.com",
		Device:   model.DeviceMobile,
		Type:     model.MonitorTypeLighthouse,
		Interval: 10 * time.Minute,
		OwnerID:  owner,
		Regions:  []string{"us-east-1"},
		Status:   model.MonitorStatusActive,
	}
}

func TestMonitorServiceCreate(t *testing.T) {
	ctx := context.Background()
	newReq := func() *model.CreateMonitorRequest {
		return &model.CreateMonitorRequest{
			URL:      "example.com",
			Device:   model.DeviceMobile,
			Regions:  []string{"us-east-1"},
			Interval: "10m",
			OwnerID:  "owner-1",
		}
	}

	t.Run("creates an active monitor under the quota", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("CountByOwner", ctx, "owner-1").Return(1, nil)
		f.repo.On("Create", ctx, mock.MatchedBy(func(m *model.Monitor) bool {
			return m.URL == "https://example.com" &&
				m.Status == model.MonitorStatusActive &&
				m.Interval == 10*time.Minute &&
				m.ID != ""
		})).Return(nil)

		monitor, err := f.svc.Create(ctx, newReq(), model.OwnerTierFree)
		require.NoError(t, err)
		assert.Equal(t, model.MonitorTypeLighthouse, monitor.Type)
		f.repo.AssertExpectations(t)
	})

	t.Run("free tier is capped", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("CountByOwner", ctx, "owner-1").Return(DefaultFreeTierMonitorLimit, nil)

		_, err := f.svc.Create(ctx, newReq(), model.OwnerTierFree)
		require.Error(t, err)
		assert.True(t, apperrors.IsQuota(err))
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing tier is treated as free", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("CountByOwner", ctx, "owner-1").Return(DefaultFreeTierMonitorLimit, nil)

		_, err := f.svc.Create(ctx, newReq(), "")
		require.Error(t, err)
		assert.True(t, apperrors.IsQuota(err))
	})

	t.Run("paid tiers are uncapped", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("Create", ctx, mock.Anything).Return(nil)

		_, err := f.svc.Create(ctx, newReq(), "PRO")
		require.NoError(t, err)
		f.repo.AssertNotCalled(t, "CountByOwner", mock.Anything, mock.Anything)
	})

	t.Run("classified repo errors keep their code", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("CountByOwner", ctx, "owner-1").Return(0, nil)
		f.repo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("insert monitor: %w",
			&apperrors.AppError{Code: apperrors.ErrCodeConflict, Message: "duplicate key"}))

		_, err := f.svc.Create(ctx, newReq(), model.OwnerTierFree)
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.False(t, apperrors.IsInternal(err))
	})

	t.Run("invalid interval", func(t *testing.T) {
		f := newMonitorFixture(t)
		req := newReq()
		req.Interval = "10s"

		_, err := f.svc.Create(ctx, req, "PRO")
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestMonitorServiceTrigger(t *testing.T) {
	ctx := context.Background()

	t.Run("creates, links, and stamps a run", func(t *testing.T) {
		f := newMonitorFixture(t)
		monitor := activeMonitor("mon-1", "owner-1")
		job := newTestJob("us-east-1")

		f.repo.On("GetByID", ctx, "mon-1").Return(monitor, nil)
		f.auditRepo.On("CreateWithResults", ctx, mock.MatchedBy(func(req *model.CreateAuditRequest) bool {
			return req.URL == monitor.URL && req.OwnerID != nil && *req.OwnerID == "owner-1"
		})).Return(job, nil)
		f.launcher.On("Launch", mock.Anything, mock.Anything).
			Return(&core.Launch{Handle: "arn-a"}, nil)
		f.repo.On("LinkJob", ctx, "mon-1", job.ID).Return(nil)
		f.repo.On("TouchLastRun", ctx, "mon-1", f.clock.Now().UTC()).Return(nil)

		got, err := f.svc.Trigger(ctx, "mon-1")
		require.NoError(t, err)
		assert.Equal(t, job, got)
		f.repo.AssertExpectations(t)
	})

	t.Run("stamps the run even when dispatch fails", func(t *testing.T) {
		f := newMonitorFixture(t)
		monitor := activeMonitor("mon-1", "owner-1")
		job := newTestJob("us-east-1")

		f.repo.On("GetByID", ctx, "mon-1").Return(monitor, nil)
		f.auditRepo.On("CreateWithResults", ctx, mock.Anything).Return(job, nil)
		f.launcher.On("Launch", mock.Anything, mock.Anything).
			Return(nil, errors.New("capacity unavailable"))
		f.auditRepo.On("SetResultFailed", ctx, mock.Anything, mock.Anything).Return(nil)
		f.auditRepo.On("SetJobFailed", ctx, job.ID, mock.Anything).Return(nil)
		f.repo.On("LinkJob", ctx, "mon-1", job.ID).Return(nil)
		f.repo.On("TouchLastRun", ctx, "mon-1", mock.Anything).Return(nil)

		got, err := f.svc.Trigger(ctx, "mon-1")
		require.Error(t, err)
		assert.True(t, apperrors.IsDispatch(err))
		assert.Equal(t, job, got)
		f.repo.AssertExpectations(t)
	})

	t.Run("unknown monitor", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("GetByID", ctx, "ghost").Return(nil, data.ErrMonitorNotFound)

		_, err := f.svc.Trigger(ctx, "ghost")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestMonitorServiceTriggerOwned(t *testing.T) {
	ctx := context.Background()

	t.Run("foreign monitors look like they do not exist", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("GetByID", ctx, "mon-1").Return(activeMonitor("mon-1", "owner-1"), nil)

		_, err := f.svc.TriggerOwned(ctx, "mon-1", "someone-else")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestMonitorServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes an owned monitor", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("GetByID", ctx, "mon-1").Return(activeMonitor("mon-1", "owner-1"), nil)
		f.repo.On("Delete", ctx, "mon-1").Return(true, nil)

		require.NoError(t, f.svc.Delete(ctx, "mon-1", "owner-1"))
	})

	t.Run("ownership mismatch is hidden as not found", func(t *testing.T) {
		f := newMonitorFixture(t)
		f.repo.On("GetByID", ctx, "mon-1").Return(activeMonitor("mon-1", "owner-1"), nil)

		err := f.svc.Delete(ctx, "mon-1", "intruder")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
		f.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestMonitorServiceRunDue(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("triggers each due monitor under its lock", func(t *testing.T) {
		f := newMonitorFixture(t)
		monitor := activeMonitor("mon-1", "owner-1")
		job := newTestJob("us-east-1")

		f.repo.On("FindDue", ctx, now, 25).Return([]*model.Monitor{monitor}, nil)
		f.repo.On("TryWithMonitorLock", ctx, "mon-1", mock.Anything).Return(true, nil)
		f.repo.On("GetByID", ctx, "mon-1").Return(monitor, nil)
		f.auditRepo.On("CreateWithResults", ctx, mock.Anything).Return(job, nil)
		f.launcher.On("Launch", mock.Anything, mock.Anything).
			Return(&core.Launch{Handle: "arn-a"}, nil)
		f.repo.On("LinkJob", ctx, "mon-1", job.ID).Return(nil)
		f.repo.On("TouchLastRun", ctx, "mon-1", mock.Anything).Return(nil)

		due, triggered, failed, err := f.svc.RunDue(ctx, 25)
		require.NoError(t, err)
		assert.Equal(t, 1, due)
		assert.Equal(t, 1, triggered)
		assert.Equal(t, 0, failed)
	})

	t.Run("skips a monitor another replica already ran", func(t *testing.T) {
		f := newMonitorFixture(t)
		stale := activeMonitor("mon-1", "owner-1")
		fresh := activeMonitor("mon-1", "owner-1")
		lastRun := now.Add(-time.Minute)
		fresh.LastRunAt = &lastRun

		f.repo.On("FindDue", ctx, now, 25).Return([]*model.Monitor{stale}, nil)
		f.repo.On("TryWithMonitorLock", ctx, "mon-1", mock.Anything).Return(true, nil)
		// Inside the lock the re-read shows a recent run, so no trigger happens.
		f.repo.On("GetByID", ctx, "mon-1").Return(fresh, nil)

		due, triggered, failed, err := f.svc.RunDue(ctx, 25)
		require.NoError(t, err)
		assert.Equal(t, 1, due)
		assert.Equal(t, 1, triggered)
		assert.Equal(t, 0, failed)
		f.auditRepo.AssertNotCalled(t, "CreateWithResults", mock.Anything, mock.Anything)
	})

	t.Run("held lock means another replica owns the monitor", func(t *testing.T) {
		f := newMonitorFixture(t)
		monitor := activeMonitor("mon-1", "owner-1")

		f.repo.On("FindDue", ctx, now, 25).Return([]*model.Monitor{monitor}, nil)
		f.repo.On("TryWithMonitorLock", ctx, "mon-1", mock.Anything).Return(false, nil)

		due, triggered, failed, err := f.svc.RunDue(ctx, 25)
		require.NoError(t, err)
		assert.Equal(t, 1, due)
		assert.Equal(t, 0, triggered)
		assert.Equal(t, 0, failed)
	})

	t.Run("a failing trigger counts as failed but the sweep continues", func(t *testing.T) {
		f := newMonitorFixture(t)
		broken := activeMonitor("mon-1", "owner-1")
		healthy := activeMonitor("mon-2", "owner-2")
		job := newTestJob("us-east-1")

		f.repo.On("FindDue", ctx, now, 25).
			Return([]*model.Monitor{broken, healthy}, nil)

		f.repo.On("TryWithMonitorLock", ctx, "mon-1", mock.Anything).Return(true, nil)
		f.repo.On("GetByID", ctx, "mon-1").Return(nil, errors.New("connection reset"))

		f.repo.On("TryWithMonitorLock", ctx, "mon-2", mock.Anything).Return(true, nil)
		f.repo.On("GetByID", ctx, "mon-2").Return(healthy, nil)
		f.auditRepo.On("CreateWithResults", ctx, mock.Anything).Return(job, nil)
		f.launcher.On("Launch", mock.Anything, mock.Anything).
			Return(&core.Launch{Handle: "arn-a"}, nil)
		f.repo.On("LinkJob", ctx, "mon-2", job.ID).Return(nil)
		f.repo.On("TouchLastRun", ctx, "mon-2", mock.Anything).Return(nil)

		due, triggered, failed, err := f.svc.RunDue(ctx, 25)
		require.NoError(t, err)
		assert.Equal(t, 2, due)
		assert.Equal(t, 1, triggered)
		assert.Equal(t, 1, failed)
	})
}
