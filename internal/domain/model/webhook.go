package model

import (
	"encoding/json"
	"errors"
)

// ResultUpdate is the payload delivered by a regional runner's completion webhook.
//
// Terminal statuses (completed/failed) correlate by ResultID. Running signals
// may arrive before the runner has learned its result id and therefore
// correlate by job + region instead; both paths are kept distinct on purpose.
type ResultUpdate struct {
	ResultID string      `json:"result_id"`
	Status   AuditStatus `json:"status"`
	Region   string      `json:"region,omitempty"`

	ReportURL      *string `json:"report_url,omitempty"`
	MetricsJSONURL *string `json:"metrics_json_url,omitempty"`
	Metrics

	// RawReport optionally carries the full report document. When the flat
	// metric fields above are absent, configured JMESPath expressions pull the
	// values out of this document instead.
	RawReport json.RawMessage `json:"raw_report,omitempty"`
}

// Validate checks the webhook payload shape.
func (u *ResultUpdate) Validate() error {
	if u.ResultID == "" {
		return errors.New("result_id is required")
	}
	if u.Status == "" {
		return errors.New("status is required")
	}
	if !u.Status.Valid() {
		return errors.New("unrecognized status value")
	}
	return nil
}
