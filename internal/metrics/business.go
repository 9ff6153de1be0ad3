package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	apperrors "github.com/allisson/securevault/internal/errors"
)

// Domains reported in the domain label.
const (
	DomainAuthorization = "authorization"
	DomainVault         = "vault"
)

// Values of the status label.
const (
	StatusSuccess  = "success"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// durationBuckets covers a claim check on the memory store up to a slow
// payout held inside a database transaction.
var durationBuckets = []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}

// rejections are the error classes caused by the caller rather than the
// service: replayed or badly signed claims, missing vaults and so on.
var rejections = []error{
	apperrors.ErrNotFound,
	apperrors.ErrConflict,
	apperrors.ErrInvalidInput,
	apperrors.ErrUnauthorized,
	apperrors.ErrForbidden,
	apperrors.ErrPreconditionFailed,
	apperrors.ErrLocked,
}

// BusinessMetrics records the count and latency of use case calls.
type BusinessMetrics interface {
	// RecordOperation counts one call of operation in domain ("authorization" or "vault").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records how long the call took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)
}

// Outcome maps the error returned by a use case to a status label. Domain
// errors that wrap one of the application error classes count as rejected.
func Outcome(err error) string {
	if err == nil {
		return StatusSuccess
	}
	for _, class := range rejections {
		if apperrors.Is(err, class) {
			return StatusRejected
		}
	}
	return StatusError
}

// Observe records both the count and the duration of a call that began at start.
func Observe(ctx context.Context, m BusinessMetrics, domain, operation string, start time.Time, err error) {
	status := Outcome(err)
	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

type businessMetrics struct {
	calls   metric.Int64Counter
	latency metric.Float64Histogram
}

// NewBusinessMetrics registers the operation counter and duration histogram
// under namespace.
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	calls, err := meter.Int64Counter(
		namespace+"_operations_total",
		metric.WithDescription("Use case calls by domain, operation and status"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operations counter: %w", err)
	}

	latency, err := meter.Float64Histogram(
		namespace+"_operation_duration_seconds",
		metric.WithDescription("Use case call latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBuckets...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation duration histogram: %w", err)
	}

	return &businessMetrics{calls: calls, latency: latency}, nil
}

func operationAttributes(domain, operation, status string) metric.MeasurementOption {
	return metric.WithAttributeSet(attribute.NewSet(
		attribute.String("domain", domain),
		attribute.String("operation", operation),
		attribute.String("status", status),
	))
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.calls.Add(ctx, 1, operationAttributes(domain, operation, status))
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.latency.Record(ctx, duration.Seconds(), operationAttributes(domain, operation, status))
}

type noopBusinessMetrics struct{}

// NewNoOpBusinessMetrics returns a recorder that discards everything. It is
// used when metrics are disabled.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return noopBusinessMetrics{}
}

func (noopBusinessMetrics) RecordOperation(context.Context, string, string, string) {}

func (noopBusinessMetrics) RecordDuration(context.Context, string, string, time.Duration, string) {}
