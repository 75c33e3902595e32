package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/streamscribe/logger"
)

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The returned provider must be shut down on exit.
func InitMeter(ctx context.Context, cfg Config, info ResourceInfo, log *logger.Logger) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(info)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.MetricInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.MetricInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	log.Info("meter initialized", logger.Fields("endpoint", cfg.Endpoint, "interval", cfg.MetricInterval.String()))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// JobMetrics holds the instruments recorded by the job runner.
type JobMetrics struct {
	total    metric.Int64Counter
	duration metric.Float64Histogram
	segments metric.Int64Counter
	active   metric.Int64UpDownCounter
}

// NewJobMetrics creates job instruments on meter.
func NewJobMetrics(meter metric.Meter) (*JobMetrics, error) {
	total, err := meter.Int64Counter("jobs.total",
		metric.WithDescription("Finished transcription jobs by status"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating jobs.total counter: %w", err)
	}
	duration, err := meter.Float64Histogram("jobs.duration",
		metric.WithDescription("Duration of transcription jobs"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating jobs.duration histogram: %w", err)
	}
	segments, err := meter.Int64Counter("jobs.segments",
		metric.WithDescription("Transcript segments streamed to clients"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating jobs.segments counter: %w", err)
	}
	active, err := meter.Int64UpDownCounter("jobs.active",
		metric.WithDescription("Jobs currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating jobs.active gauge: %w", err)
	}
	return &JobMetrics{total: total, duration: duration, segments: segments, active: active}, nil
}

// JobStarted increments the active job count. A nil receiver is a no-op.
func (m *JobMetrics) JobStarted(ctx context.Context) {
	if m == nil {
		return
	}
	m.active.Add(ctx, 1)
}

// RecordJob records a finished job. A nil receiver is a no-op.
func (m *JobMetrics) RecordJob(ctx context.Context, status string, elapsed time.Duration, segments int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.active.Add(ctx, -1)
	m.total.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
	m.segments.Add(ctx, int64(segments))
}
