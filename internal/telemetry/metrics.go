package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// SyncMetricsMeterName is the name used for the sync metrics meter
	SyncMetricsMeterName = "github.com/stacklok/index-settings-sync/sync"
)

// Operation names recorded by SyncMetrics
const (
	OperationAnalyse  = "analyse"
	OperationDownload = "download"
	OperationUpload   = "upload"
)

// SyncMetrics holds the instruments for synchronizer operations
type SyncMetrics struct {
	operationDuration metric.Float64Histogram
	operationsTotal   metric.Int64Counter
	driftTotal        metric.Int64Counter
}

// NewSyncMetrics creates a new SyncMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSyncMetrics(provider metric.MeterProvider) (*SyncMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SyncMetricsMeterName)

	operationDuration, err := meter.Float64Histogram(
		"index_settings_operation_duration_seconds",
		metric.WithDescription("Duration of synchronizer operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60),
	)
	if err != nil {
		return nil, err
	}

	operationsTotal, err := meter.Int64Counter(
		"index_settings_operations_total",
		metric.WithDescription("Number of synchronizer operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	driftTotal, err := meter.Int64Counter(
		"index_settings_drift_total",
		metric.WithDescription("Number of analyses per resulting state"),
		metric.WithUnit("{analysis}"),
	)
	if err != nil {
		return nil, err
	}

	return &SyncMetrics{
		operationDuration: operationDuration,
		operationsTotal:   operationsTotal,
		driftTotal:        driftTotal,
	}, nil
}

// RecordOperation records the outcome and duration of one operation on an index
func (m *SyncMetrics) RecordOperation(ctx context.Context, index, operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("index", index),
		attribute.String("operation", operation),
		attribute.Bool("success", err == nil),
	)
	m.operationDuration.Record(ctx, duration.Seconds(), attrs)
	m.operationsTotal.Add(ctx, 1, attrs)
}

// RecordDrift counts an analysis result
func (m *SyncMetrics) RecordDrift(ctx context.Context, index, state string) {
	if m == nil {
		return
	}

	m.driftTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("index", index),
		attribute.String("state", state),
	))
}
