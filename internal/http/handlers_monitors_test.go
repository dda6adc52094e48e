package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/feru-app/beacon/internal/core"
	"github.com/feru-app/beacon/internal/domain/model"
	"github.com/feru-app/beacon/internal/mocks"
	"github.com/feru-app/beacon/internal/service"
)

type monitorHandlerMocks struct {
	monitors *mocks.MockMonitorRepository
	audits   *mocks.MockAuditRepository
	launcher *mocks.MockTaskLauncher
}

func newMonitorHandlersWithMock(
	t *testing.T,
) (*MonitorHandlers, *monitorHandlerMocks, *gomock.Controller) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := &monitorHandlerMocks{
		monitors: mocks.NewMockMonitorRepository(ctrl),
		audits:   mocks.NewMockAuditRepository(ctrl),
		launcher: mocks.NewMockTaskLauncher(ctrl),
	}

	auditSvc := service.MustNewAuditService(service.AuditServiceOptions{
		Repo:           m.audits,
		Launcher:       m.launcher,
		AllowedRegions: []string{"us-east-1"},
	})
	svc := service.MustNewMonitorService(service.MonitorServiceOptions{
		Repo:   m.monitors,
		Audits: auditSvc,
	})
	return &MonitorHandlers{Svc: svc}, m, ctrl
}

func stubMonitor(id, owner string) *model.Monitor {
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

func TestCreateMonitor_RequiresIdentity(t *testing.T) {
	h, _, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	r := httptest.NewRequest(http.MethodPost, "/api/monitors",
		bytes.NewBufferString(`{"url":"example.com"}`))
	w := httptest.NewRecorder()

	h.Create(w, r)
	require.Equal(t, http.StatusUnauthorized, w.Result().StatusCode)
}

func TestCreateMonitor_Success(t *testing.T) {
	h, m, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	m.monitors.EXPECT().CountByOwner(gomock.Any(), "user-7").Return(0, nil)
	m.monitors.EXPECT().
		Create(gomock.Any(), gomock.Cond(func(mon *model.Monitor) bool {
			return mon.OwnerID == "user-7" && mon.Status == model.MonitorStatusActive
		})).
		Return(nil)

	b := []byte(`{"url":"example.com","device":"mobile","regions":["us-east-1"],"interval":"10m"}`)
	r := requestWithIdentity(http.MethodPost, "/api/monitors", "user-7", "FREE", b)
	w := httptest.NewRecorder()

	h.Create(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var got model.Monitor
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, "user-7", got.OwnerID)
}

func TestCreateMonitor_QuotaExceeded(t *testing.T) {
	h, m, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	m.monitors.EXPECT().CountByOwner(gomock.Any(), "user-7").
		Return(service.DefaultFreeTierMonitorLimit, nil)

	b := []byte(`{"url":"example.com","device":"mobile","regions":["us-east-1"],"interval":"10m"}`)
	r := requestWithIdentity(http.MethodPost, "/api/monitors", "user-7", "FREE", b)
	w := httptest.NewRecorder()

	h.Create(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "quota", body["error"])
}

func TestCreateMonitor_PaidTierSkipsQuota(t *testing.T) {
	h, m, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	m.monitors.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	b := []byte(`{"url":"example.com","device":"mobile","regions":["us-east-1"],"interval":"10m"}`)
	r := requestWithIdentity(http.MethodPost, "/api/monitors", "user-7", "PRO", b)
	w := httptest.NewRecorder()

	h.Create(w, r)
	require.Equal(t, http.StatusCreated, w.Result().StatusCode)
}

func TestListMonitors_Success(t *testing.T) {
	h, m, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	m.monitors.EXPECT().ListByOwner(gomock.Any(), "user-7").
		Return([]*model.Monitor{stubMonitor("mon-1", "user-7")}, nil)

	r := requestWithIdentity(http.MethodGet, "/api/monitors", "user-7", "", nil)
	w := httptest.NewRecorder()

	h.List(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Monitors []*model.Monitor `json:"monitors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Monitors, 1)
}

func TestDeleteMonitor_Success(t *testing.T) {
	h, m, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	m.monitors.EXPECT().GetByID(gomock.Any(), "mon-1").
		Return(stubMonitor("mon-1", "user-7"), nil)
	m.monitors.EXPECT().Delete(gomock.Any(), "mon-1").Return(true, nil)

	r := requestWithIdentity(http.MethodDelete, "/api/monitors/mon-1", "user-7", "", nil)
	r.SetPathValue("id", "mon-1")
	w := httptest.NewRecorder()

	h.Delete(w, r)
	require.Equal(t, http.StatusNoContent, w.Result().StatusCode)
}

func TestDeleteMonitor_ForeignOwnerHidden(t *testing.T) {
	h, m, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	m.monitors.EXPECT().GetByID(gomock.Any(), "mon-1").
		Return(stubMonitor("mon-1", "someone-else"), nil)

	r := requestWithIdentity(http.MethodDelete, "/api/monitors/mon-1", "user-7", "", nil)
	r.SetPathValue("id", "mon-1")
	w := httptest.NewRecorder()

	h.Delete(w, r)
	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}

func TestTriggerMonitor_Success(t *testing.T) {
	h, m, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	monitor := stubMonitor("mon-1", "user-7")
	job := stubJob("us-east-1")

	m.monitors.EXPECT().GetByID(gomock.Any(), "mon-1").Return(monitor, nil).Times(2)
	m.audits.EXPECT().CreateWithResults(gomock.Any(), gomock.Any()).Return(job, nil)
	m.launcher.EXPECT().Launch(gomock.Any(), gomock.Any()).
		Return(&core.Launch{Handle: "arn"}, nil)
	m.monitors.EXPECT().LinkJob(gomock.Any(), "mon-1", job.ID).Return(nil)
	m.monitors.EXPECT().TouchLastRun(gomock.Any(), "mon-1", gomock.Any()).Return(nil)

	r := requestWithIdentity(http.MethodPost, "/api/monitors/mon-1/trigger", "user-7", "", nil)
	r.SetPathValue("id", "mon-1")
	w := httptest.NewRecorder()

	h.Trigger(w, r)

	resp := w.Result()
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var body struct {
		Job *model.AuditJob `json:"job"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotNil(t, body.Job)
	assert.Equal(t, job.ID, body.Job.ID)
}

func TestTriggerMonitor_ForeignOwnerHidden(t *testing.T) {
	h, m, ctrl := newMonitorHandlersWithMock(t)
	defer ctrl.Finish()

	m.monitors.EXPECT().GetByID(gomock.Any(), "mon-1").
		Return(stubMonitor("mon-1", "someone-else"), nil)

	r := requestWithIdentity(http.MethodPost, "/api/monitors/mon-1/trigger", "user-7", "", nil)
	r.SetPathValue("id", "mon-1")
	w := httptest.NewRecorder()

	h.Trigger(w, r)
	require.Equal(t, http.StatusNotFound, w.Result().StatusCode)
}
