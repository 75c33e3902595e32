package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Endpoint != "localhost:4318" || cfg.SampleRate != 1.0 || cfg.MetricInterval != 15*time.Second {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	cfg.Enabled = true
	cfg.SampleRate = 2
	if err := cfg.Validate(); err == nil {
		t.Error("expected sample_rate error")
	}
}

func TestSampler(t *testing.T) {
	if sampler(1).Description() != sdktrace.AlwaysSample().Description() {
		t.Error("rate 1 should always sample")
	}
	if sampler(0).Description() != sdktrace.NeverSample().Description() {
		t.Error("rate 0 should never sample")
	}
}

func TestStartSpanAndError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	defer otel.SetTracerProvider(prev)

	_, span := StartSpan(context.Background(), SpanJobRun)
	SetSpanError(span, errors.New("engine failed"))
	span.End()

	ended := recorder.Ended()
	if len(ended) != 1 {
		t.Fatalf("got %d spans", len(ended))
	}
	if ended[0].Name() != SpanJobRun || ended[0].Status().Code != codes.Error {
		t.Errorf("span = %s status %v", ended[0].Name(), ended[0].Status())
	}
	if len(ended[0].Events()) != 1 {
		t.Error("expected recorded error event")
	}
}

func TestJobMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewJobMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	m.JobStarted(ctx)
	m.RecordJob(ctx, "completed", 2*time.Second, 4)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			found[md.Name] = true
			if md.Name == "jobs.segments" {
				sum := md.Data.(metricdata.Sum[int64])
				if sum.DataPoints[0].Value != 4 {
					t.Errorf("jobs.segments = %d, want 4", sum.DataPoints[0].Value)
				}
			}
		}
	}
	for _, name := range []string{"jobs.total", "jobs.duration", "jobs.segments", "jobs.active"} {
		if !found[name] {
			t.Errorf("metric %s not recorded", name)
		}
	}
}

func TestJobMetricsNoop(t *testing.T) {
	m, err := NewJobMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	m.JobStarted(context.Background())
	m.RecordJob(context.Background(), "errored", time.Millisecond, 0)

	var nilMetrics *JobMetrics
	nilMetrics.JobStarted(context.Background())
	nilMetrics.RecordJob(context.Background(), "completed", 0, 0)
}

func TestComponentDisabled(t *testing.T) {
	c := NewComponent(Config{}, ResourceInfo{ServiceName: "test"}, nil)
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatal(err)
	}
	if c.Describe().Details != "disabled" || c.Health(ctx).Message != "export disabled" {
		t.Error("disabled component should say so")
	}
}
