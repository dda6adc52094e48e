package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/feru-app/beacon/internal/errors"
)

type recordedMetric struct {
	kind string
	name string
	tags map[string]string
}

type recordingSink struct {
	metrics []recordedMetric
}

func (r *recordingSink) Count(name string, _ int64, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{kind: "count", name: name, tags: tags})
}

func (r *recordingSink) Gauge(name string, _ float64, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{kind: "gauge", name: name, tags: tags})
}

func (r *recordingSink) Timing(name string, _ time.Duration, tags map[string]string) {
	r.metrics = append(r.metrics, recordedMetric{kind: "timing", name: name, tags: tags})
}

func TestEmitDispatch(t *testing.T) {
	t.Run("success with duration", func(t *testing.T) {
		sink := &recordingSink{}
		EmitDispatch(sink, DispatchMetric{
			Region:   "us-east-1",
			Result:   ResultSuccess,
			Duration: 120 * time.Millisecond,
		})

		require.Len(t, sink.metrics, 2)
		assert.Equal(t, "audit.dispatch", sink.metrics[0].name)
		assert.Equal(t, "us-east-1", sink.metrics[0].tags["region"])
		assert.Equal(t, ResultSuccess, sink.metrics[0].tags["result"])
		assert.Equal(t, "timing", sink.metrics[1].kind)
		assert.Equal(t, "audit.dispatch_duration", sink.metrics[1].name)
	})

	t.Run("error carries the error class", func(t *testing.T) {
		sink := &recordingSink{}
		EmitDispatch(sink, DispatchMetric{
			Region: "eu-west-1",
			Result: ResultError,
			Err:    apperrors.Dispatch("launch task", assert.AnError),
		})

		require.Len(t, sink.metrics, 1)
		assert.Equal(t, string(apperrors.ErrCodeDispatch), sink.metrics[0].tags["error_class"])
	})

	t.Run("nil sink is a no-op", func(t *testing.T) {
		EmitDispatch(nil, DispatchMetric{Region: "us-east-1", Result: ResultSuccess})
	})
}

func TestEmitWebhook(t *testing.T) {
	sink := &recordingSink{}
	EmitWebhook(sink, WebhookMetric{Status: "completed", Result: ResultNoop})

	require.Len(t, sink.metrics, 1)
	assert.Equal(t, "webhook.result", sink.metrics[0].name)
	assert.Equal(t, "completed", sink.metrics[0].tags["status"])
	assert.Equal(t, ResultNoop, sink.metrics[0].tags["result"])
}

func TestEmitJobTransition(t *testing.T) {
	sink := &recordingSink{}
	EmitJobTransition(sink, "partial", true)
	EmitJobTransition(sink, "running", false)

	require.Len(t, sink.metrics, 2)
	assert.Equal(t, "true", sink.metrics[0].tags["terminal"])
	assert.NotContains(t, sink.metrics[1].tags, "terminal")
}

func TestEmitMonitorTick(t *testing.T) {
	sink := &recordingSink{}
	EmitMonitorTick(sink, 4, 3, 1, 80*time.Millisecond)

	names := make([]string, 0, len(sink.metrics))
	for _, m := range sink.metrics {
		names = append(names, m.name)
	}
	assert.Equal(t, []string{
		"monitor.due", "monitor.triggered", "monitor.trigger_errors", "monitor.tick_duration",
	}, names)

	sink = &recordingSink{}
	EmitMonitorTick(sink, 0, 0, 0, time.Millisecond)
	for _, m := range sink.metrics {
		assert.NotEqual(t, "monitor.trigger_errors", m.name)
	}
}
