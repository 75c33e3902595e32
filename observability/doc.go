// Package observability provides OpenTelemetry tracing and metrics for the
// service. Export is disabled by default; instruments then record into the
// global no-op providers.
//
//	comp := observability.NewComponent(cfg, cfg.ResourceInfo(), log)
//	registry.Register(comp)
//
//	ctx, span := observability.StartSpan(ctx, observability.SpanJobRun)
//	defer span.End()
//
//	metrics, _ := observability.NewJobMetrics(observability.Meter("streamscribe"))
//	metrics.RecordJob(ctx, "completed", elapsed, segments)
package observability
