// Package metrics centralizes the metric names and tag shapes emitted by the
// audit pipeline so dashboards stay stable as call sites move around.
package metrics

import (
	"time"

	apperrors "github.com/feru-app/beacon/internal/errors"
	"github.com/feru-app/beacon/internal/observability/statsd"
)

// Result constants for metric tagging.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultNoop    = "noop"
)

// DispatchMetric captures one regional task launch attempt.
type DispatchMetric struct {
	Region   string
	Result   string
	Duration time.Duration
	Err      error
}

// EmitDispatch records a regional launch attempt.
func EmitDispatch(sink statsd.Sink, in DispatchMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"region": in.Region,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if code := apperrors.GetCode(in.Err); code != "" {
			tags["error_class"] = string(code)
		}
	}

	sink.Count("audit.dispatch", 1, tags)
	if in.Duration > 0 {
		sink.Timing("audit.dispatch_duration", in.Duration, cloneTags(tags))
	}
}

// WebhookMetric captures one result webhook application.
type WebhookMetric struct {
	Status string
	Result string
	Err    error
}

// EmitWebhook records a webhook ingestion outcome. Result is "noop" when the
// delivery was a replay the guarded update skipped.
func EmitWebhook(sink statsd.Sink, in WebhookMetric) {
	if sink == nil {
		return
	}

	tags := map[string]string{
		"status": in.Status,
		"result": in.Result,
	}
	if in.Err != nil && in.Result == ResultError {
		if code := apperrors.GetCode(in.Err); code != "" {
			tags["error_class"] = string(code)
		}
	}

	sink.Count("webhook.result", 1, tags)
}

// EmitJobTransition records a job-level status change decided by aggregation.
func EmitJobTransition(sink statsd.Sink, status string, terminal bool) {
	if sink == nil {
		return
	}
	tags := map[string]string{"status": status}
	if terminal {
		tags["terminal"] = "true"
	}
	sink.Count("audit.job_transition", 1, tags)
}

// EmitMonitorTick records one scheduler sweep.
func EmitMonitorTick(sink statsd.Sink, due, triggered, failed int, duration time.Duration) {
	if sink == nil {
		return
	}
	sink.Gauge("monitor.due", float64(due), nil)
	sink.Count("monitor.triggered", int64(triggered), nil)
	if failed > 0 {
		sink.Count("monitor.trigger_errors", int64(failed), nil)
	}
	sink.Timing("monitor.tick_duration", duration, nil)
}

func cloneTags(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	out := make(map[string]string, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}
