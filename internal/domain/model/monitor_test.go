package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateMonitorRequestValidate(t *testing.T) {
	valid := func() CreateMonitorRequest {
		return CreateMonitorRequest{
			URL:      "https://example.com",
			Device:   DeviceDesktop,
			Type:     MonitorTypeLighthouse,
			Regions:  []string{"us-east-1"},
			Interval: "15m",
			OwnerID:  "owner-1",
		}
	}

	t.Run("valid request resolves the interval", func(t *testing.T) {
		req := valid()
		interval, err := req.Validate()
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, interval)
	})

	t.Run("type defaults to lighthouse", func(t *testing.T) {
		req := valid()
		req.Type = ""
		_, err := req.Validate()
		require.NoError(t, err)
		assert.Equal(t, MonitorTypeLighthouse, req.Type)
	})

	t.Run("missing owner", func(t *testing.T) {
		req := valid()
		req.OwnerID = ""
		_, err := req.Validate()
		assert.Error(t, err)
	})

	t.Run("unparseable interval", func(t *testing.T) {
		req := valid()
		req.Interval = "every day"
		_, err := req.Validate()
		assert.Error(t, err)
	})

	t.Run("interval below one minute", func(t *testing.T) {
		req := valid()
		req.Interval = "30s"
		_, err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 1m")
	})

	t.Run("unknown type", func(t *testing.T) {
		req := valid()
		req.Type = "pagespeed"
		_, err := req.Validate()
		assert.Error(t, err)
	})
}

func TestMonitorDue(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	base := Monitor{
		Status:   MonitorStatusActive,
		Interval: 10 * time.Minute,
	}

	t.Run("never run monitors are due", func(t *testing.T) {
		m := base
		assert.True(t, m.Due(now))
	})

	t.Run("due once the interval has elapsed", func(t *testing.T) {
		m := base
		last := now.Add(-10 * time.Minute)
		m.LastRunAt = &last
		assert.True(t, m.Due(now))
	})

	t.Run("not due inside the interval", func(t *testing.T) {
		m := base
		last := now.Add(-5 * time.Minute)
		m.LastRunAt = &last
		assert.False(t, m.Due(now))
	})

	t.Run("inactive monitors are never due", func(t *testing.T) {
		m := base
		m.Status = "paused"
		assert.False(t, m.Due(now))
	})

	t.Run("zero interval is never due", func(t *testing.T) {
		m := base
		m.Interval = 0
		assert.False(t, m.Due(now))
	})
}
