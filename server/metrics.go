package server

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/brensch/snekpath/nav"
)

const meterName = "github.com/brensch/snekpath/server"

// metrics holds the decision service instruments. Instruments that fail to
// register are left nil and skipped.
type metrics struct {
	decisions metric.Int64Counter
	rejected  metric.Int64Counter
	latency   metric.Float64Histogram
	sessions  metric.Int64UpDownCounter
}

func newMetrics(meter metric.Meter) *metrics {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	m := &metrics{}
	if c, err := meter.Int64Counter("snekpath.decisions",
		metric.WithDescription("Moves decided, by source and mode"),
		metric.WithUnit("{decision}"),
	); err == nil {
		m.decisions = c
	}
	if c, err := meter.Int64Counter("snekpath.rejected",
		metric.WithDescription("Requests rejected as malformed"),
		metric.WithUnit("{request}"),
	); err == nil {
		m.rejected = c
	}
	if h, err := meter.Float64Histogram("snekpath.decide.duration",
		metric.WithDescription("Time spent deciding one move"),
		metric.WithUnit("ms"),
	); err == nil {
		m.latency = h
	}
	if c, err := meter.Int64UpDownCounter("snekpath.sessions",
		metric.WithDescription("Open decision sessions"),
		metric.WithUnit("{session}"),
	); err == nil {
		m.sessions = c
	}
	return m
}

func (m *metrics) decided(ctx context.Context, d nav.Decision, elapsed time.Duration, transport string) {
	attrs := metric.WithAttributes(
		attribute.String("source", string(d.Source)),
		attribute.String("mode", string(d.Mode)),
		attribute.String("transport", transport),
	)
	if m.decisions != nil {
		m.decisions.Add(ctx, 1, attrs)
	}
	if m.latency != nil {
		m.latency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}

func (m *metrics) reject(ctx context.Context, transport string) {
	if m.rejected != nil {
		m.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("transport", transport)))
	}
}

func (m *metrics) sessionDelta(ctx context.Context, n int64) {
	if m.sessions != nil {
		m.sessions.Add(ctx, n)
	}
}
