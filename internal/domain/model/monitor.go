package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MonitorType represents the kind of recurring audit a monitor re-triggers.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type MonitorType string

const (
	// MonitorTypeLighthouse is the only monitor type that can currently be triggered.
	MonitorTypeLighthouse MonitorType = "lighthouse"

	// MonitorStatusActive marks a monitor eligible for scheduled runs.
	MonitorStatusActive = "active"

	// OwnerTierFree is the default caller tier with a capped monitor quota.
	OwnerTierFree = "FREE"
)

// Valid returns true if the MonitorType is valid.
func (t MonitorType) Valid() bool {
	return t == MonitorTypeLighthouse
}

// UnmarshalText implements encoding.TextUnmarshaler for MonitorType.
func (t *MonitorType) UnmarshalText(text []byte) error {
	v := MonitorType(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid monitor type: %q", string(text))
	}
	*t = v
	return nil
}

// Monitor is a saved recurring audit configuration that re-triggers job creation.
type Monitor struct {
	ID        string        `json:"id"                    db:"id"`
	URL       string        `json:"url"                   db:"url"`
	Device    Device        `json:"device"                db:"device"`
	Type      MonitorType   `json:"type"                  db:"type"`
	Interval  time.Duration `json:"interval"              db:"interval_seconds"`
	OwnerID   string        `json:"owner_id"              db:"owner_id"`
	Regions   []string      `json:"regions"               db:"regions"`
	Status    string        `json:"status"                db:"status"`
	CreatedAt time.Time     `json:"created_at"            db:"created_at"`
	LastRunAt *time.Time    `json:"last_run_at,omitempty" db:"last_run_at"`
}

// Due reports whether the monitor should be triggered at the given time.
func (m *Monitor) Due(now time.Time) bool {
	if m.Status != MonitorStatusActive || m.Interval <= 0 {
		return false
	}
	if m.LastRunAt == nil {
		return true
	}
	return !now.Before(m.LastRunAt.Add(m.Interval))
}

// CreateMonitorRequest represents a request to create a new monitor.
type CreateMonitorRequest struct {
	URL      string      `json:"url"`
	Device   Device      `json:"device"`
	Type     MonitorType `json:"type"`
	Regions  []string    `json:"regions"`
	Interval string      `json:"interval"`
	OwnerID  string      `json:"-"`
}

// Validate checks the request and resolves the interval spec.
func (r *CreateMonitorRequest) Validate() (time.Duration, error) {
	if strings.TrimSpace(r.URL) == "" {
		return 0, errors.New("url is required")
	}
	if !r.Device.Valid() {
		return 0, errors.New("device must be mobile or desktop")
	}
	if len(r.Regions) == 0 {
		return 0, errors.New("at least one region is required")
	}
	if r.OwnerID == "" {
		return 0, errors.New("owner is required")
	}
	if r.Type == "" {
		r.Type = MonitorTypeLighthouse
	}
	if !r.Type.Valid() {
		return 0, fmt.Errorf("invalid monitor type: %q", r.Type)
	}
	if strings.TrimSpace(r.Interval) == "" {
		return 0, errors.New("interval is required")
	}
	interval, err := time.ParseDuration(r.Interval)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", r.Interval, err)
	}
	if interval < time.Minute {
		return 0, errors.New("interval must be at least 1m")
	}
	return interval, nil
}

// JobMonitorLink records that a job was created by a monitor run.
// A job belongs to at most one monitor; one monitor owns many jobs over time.
type JobMonitorLink struct {
	MonitorID string    `json:"monitor_id" db:"monitor_id"`
	JobID     string    `json:"job_id"     db:"job_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
