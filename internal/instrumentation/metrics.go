package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrOperation = "operation"
	attrResult    = "result"
	attrPrompt    = "prompt"
)

// Result values recorded on metrics.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics provides methods for recording observability metrics for the
// aggregation engine. A nil *Metrics is valid; all methods become
// no-ops, so callers never have to guard recording sites.
type Metrics struct {
	driveOperationsTotal   metric.Int64Counter
	driveOperationDuration metric.Float64Histogram
	authAttemptsTotal      metric.Int64Counter
	linkedAccounts         metric.Int64UpDownCounter
}

// NewMetrics creates a Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.driveOperationsTotal, err = meter.Int64Counter(
		"drive_operations_total",
		metric.WithDescription("Total number of Google Drive operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_operations_total counter: %w", err)
	}

	m.driveOperationDuration, err = meter.Float64Histogram(
		"drive_operation_duration_seconds",
		metric.WithDescription("Google Drive operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive_operation_duration_seconds histogram: %w", err)
	}

	m.authAttemptsTotal, err = meter.Int64Counter(
		"auth_attempts_total",
		metric.WithDescription("Total number of authorization attempts"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth_attempts_total counter: %w", err)
	}

	m.linkedAccounts, err = meter.Int64UpDownCounter(
		"linked_accounts",
		metric.WithDescription("Number of currently linked accounts"),
		metric.WithUnit("{account}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create linked_accounts gauge: %w", err)
	}

	return m, nil
}

// RecordDriveOperation records one Drive operation with its outcome and
// duration.
func (m *Metrics) RecordDriveOperation(ctx context.Context, operation, result string, duration time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrOperation, operation),
		attribute.String(attrResult, result),
	)
	m.driveOperationsTotal.Add(ctx, 1, attrs)
	m.driveOperationDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordAuthAttempt records one authorization attempt.
func (m *Metrics) RecordAuthAttempt(ctx context.Context, prompt, result string) {
	if m == nil {
		return
	}

	m.authAttemptsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrPrompt, prompt),
		attribute.String(attrResult, result),
	))
}

// AddLinkedAccounts adjusts the linked-account gauge by delta.
func (m *Metrics) AddLinkedAccounts(ctx context.Context, delta int64) {
	if m == nil {
		return
	}
	m.linkedAccounts.Add(ctx, delta)
}

// Result converts an error into the metric result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
