package relay

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/hawkstone-global/hawkstone_backend/internal/service/relay"

const (
	outcomeSent         = "sent"
	outcomeInvalid      = "invalid"
	outcomeUnconfigured = "unconfigured"
	outcomeFailed       = "failed"
)

type relayMetrics struct {
	submissions metric.Int64Counter
	duration    metric.Float64Histogram
}

func newMetrics() *relayMetrics {
	meter := otel.Meter(meterName)

	submissions, _ := meter.Int64Counter(
		"form_relay_submissions_total",
		metric.WithDescription("Form submissions by form and outcome"),
		metric.WithUnit("{submission}"),
	)
	duration, _ := meter.Float64Histogram(
		"form_relay_send_duration_ms",
		metric.WithDescription("Time spent verifying and sending relayed mail"),
		metric.WithUnit("ms"),
	)

	return &relayMetrics{submissions: submissions, duration: duration}
}

func (m *relayMetrics) record(ctx context.Context, form, outcome string, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("form", form),
		attribute.String("outcome", outcome),
	)
	if m.submissions != nil {
		m.submissions.Add(ctx, 1, attrs)
	}
	if m.duration != nil && elapsed > 0 {
		m.duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}
