// Package model defines the core data types and structures used throughout the beacon audit system.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Device represents the emulated device profile for an audit run.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type Device string

// AuditStatus represents the lifecycle status of an audit job or a per-region result.
//
//nolint:recvcheck // UnmarshalText needs pointer receiver, Valid needs value receiver
type AuditStatus string

const (
	// DeviceMobile emulates a mobile device.
	DeviceMobile Device = "mobile"
	// DeviceDesktop emulates a desktop browser.
	DeviceDesktop Device = "desktop"

	// StatusPending indicates the audit has been created but no runner has picked it up.
	StatusPending AuditStatus = "pending"
	// StatusRunning indicates at least one regional runner is executing.
	StatusRunning AuditStatus = "running"
	// StatusCompleted indicates the audit finished successfully.
	StatusCompleted AuditStatus = "completed"
	// StatusFailed indicates the audit failed to complete.
	StatusFailed AuditStatus = "failed"
	// StatusPartial is a job-only terminal status: every regional result is
	// terminal but completions and failures are mixed.
	StatusPartial AuditStatus = "partial"
)

// Valid returns true if the Device is valid.
func (d Device) Valid() bool {
	return d == DeviceMobile || d == DeviceDesktop
}

// UnmarshalText implements encoding.TextUnmarshaler for Device to allow env and JSON parsing.
func (d *Device) UnmarshalText(text []byte) error {
	v := Device(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid device: %q", string(text))
	}
	*d = v
	return nil
}

// Valid returns true if the AuditStatus is one of the result statuses.
// StatusPartial is excluded: it is only ever derived for jobs, never reported.
func (s AuditStatus) Valid() bool {
	return s == StatusPending || s == StatusRunning || s == StatusCompleted || s == StatusFailed
}

// Terminal returns true if the status can never change again.
func (s AuditStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusPartial
}

// UnmarshalText implements encoding.TextUnmarshaler for AuditStatus.
// Runner callbacks historically report statuses uppercase, so parsing is case-insensitive.
func (s *AuditStatus) UnmarshalText(text []byte) error {
	v := AuditStatus(strings.ToLower(strings.TrimSpace(string(text))))
	if !v.Valid() {
		return fmt.Errorf("invalid status: %q", string(text))
	}
	*s = v
	return nil
}

// Metrics holds the performance numbers reported by a completed audit run.
// All fields are optional; a runner may omit any it could not measure.
type Metrics struct {
	LCP              *float64 `json:"lcp,omitempty"               db:"lcp"`
	FCP              *float64 `json:"fcp,omitempty"               db:"fcp"`
	CLS              *float64 `json:"cls,omitempty"               db:"cls"`
	TBT              *float64 `json:"tbt,omitempty"               db:"tbt"`
	TTI              *float64 `json:"tti,omitempty"               db:"tti"`
	TTFB             *float64 `json:"ttfb,omitempty"              db:"ttfb"`
	PerformanceScore *float64 `json:"performance_score,omitempty" db:"performance_score"`
}

// AuditJob represents one audit request spanning one or more regions.
type AuditJob struct {
	ID          string      `json:"id"                     db:"id"`
	URL         string      `json:"url"                    db:"url"`
	Device      Device      `json:"device"                 db:"device"`
	Regions     []string    `json:"regions"                db:"regions"`
	RequesterIP string      `json:"ip,omitempty"           db:"requester_ip"`
	OwnerID     *string     `json:"owner_id,omitempty"     db:"owner_id"`
	Status      AuditStatus `json:"status"                 db:"status"`
	CreatedAt   time.Time   `json:"created_at"             db:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty" db:"completed_at"`

	// Results is populated by read paths that join the per-region rows.
	Results []*AuditResult `json:"results,omitempty"`
}

// AuditResult is the per-region outcome record belonging to exactly one AuditJob.
type AuditResult struct {
	ID          string      `json:"id"                     db:"id"`
	JobID       string      `json:"job_id"                 db:"job_id"`
	Region      string      `json:"region"                 db:"region"`
	Status      AuditStatus `json:"status"                 db:"status"`
	ReportURL   *string     `json:"report_url,omitempty"   db:"report_url"`
	MetricsURL  *string     `json:"metrics_url,omitempty"  db:"metrics_url"`
	Metrics     Metrics     `json:"metrics"`
	CreatedAt   time.Time   `json:"created_at"             db:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty" db:"completed_at"`
}

// CreateAuditRequest represents a request to create a new multi-region audit.
type CreateAuditRequest struct {
	URL         string   `json:"url"`
	Device      Device   `json:"device"`
	Regions     []string `json:"regions"`
	RequesterIP string   `json:"-"`
	OwnerID     *string  `json:"-"`
}

// Validate checks the request shape. Region membership against the configured
// region set is enforced by the audit service, which owns that configuration.
func (r *CreateAuditRequest) Validate() error {
	if strings.TrimSpace(r.URL) == "" {
		return errors.New("url is required")
	}
	if !r.Device.Valid() {
		return errors.New("device must be mobile or desktop")
	}
	if len(r.Regions) == 0 {
		return errors.New("at least one region is required")
	}
	seen := make(map[string]struct{}, len(r.Regions))
	for _, region := range r.Regions {
		if strings.TrimSpace(region) == "" {
			return errors.New("region codes must be non-empty")
		}
		if _, dup := seen[region]; dup {
			return fmt.Errorf("duplicate region %q", region)
		}
		seen[region] = struct{}{}
	}
	return nil
}

// NormalizeURL prefixes https:// when the url carries no explicit scheme.
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "http://") || strings.HasPrefix(trimmed, "https://") {
		return trimmed
	}
	return "https://" + trimmed
}

// ParseRegions splits a comma-separated region list as accepted by the create endpoint.
func ParseRegions(raw string) []string {
	parts := strings.Split(raw, ",")
	regions := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			regions = append(regions, trimmed)
		}
	}
	return regions
}
