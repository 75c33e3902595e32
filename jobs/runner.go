package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/kbukum/streamscribe/errors"
	"github.com/kbukum/streamscribe/event"
	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/observability"
	"github.com/kbukum/streamscribe/storage"
	"github.com/kbukum/streamscribe/transcription"
)

// Runner executes transcription jobs against a shared engine.
type Runner struct {
	store     storage.Storage
	engine    transcription.Provider
	publisher event.Publisher
	metrics   *observability.JobMetrics
	log       *logger.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithMetrics records job metrics on m.
func WithMetrics(m *observability.JobMetrics) RunnerOption {
	return func(r *Runner) { r.metrics = m }
}

var _ Executor = (*Runner)(nil)

// NewRunner creates a Runner.
func NewRunner(store storage.Storage, engine transcription.Provider, publisher event.Publisher, log *logger.Logger, opts ...RunnerOption) *Runner {
	if log == nil {
		log = logger.Nop()
	}
	r := &Runner{
		store:     store,
		engine:    engine,
		publisher: publisher,
		log:       log.WithComponent("jobs"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type outcome struct {
	transcript string
	savedFile  string
	segments   int
}

// Run transcribes job, publishing a segment event per engine segment and
// then exactly one complete or error event. The input file is deleted
// before Run returns, whatever the outcome. Panics are reported as errors.
func (r *Runner) Run(ctx context.Context, job Job) Status {
	start := time.Now()
	log := r.log.WithFields(logger.Fields(logger.FieldJobID, job.ID))

	ctx, span := observability.StartSpan(ctx, observability.SpanJobRun, trace.WithAttributes(
		attribute.String(observability.AttrJobID, job.ID),
		attribute.String(observability.AttrProvider, r.engine.Name()),
	))
	defer span.End()

	r.metrics.JobStarted(ctx)
	defer r.cleanup(ctx, job, log)

	log.Info("job started", logger.Fields(logger.FieldPath, job.InputPath, "output", job.OutputFile()))

	out, err := r.execute(ctx, job, log)
	status := StatusCompleted
	if err != nil {
		status = StatusErrored
		r.publish(ctx, log, event.Failed(job.ID, err))
		observability.SetSpanError(span, err)
		log.Error("job failed", logger.Fields(logger.FieldError, err.Error(), "segments", out.segments))
	} else {
		r.publish(ctx, log, event.Complete(job.ID, out.savedFile, out.transcript))
		log.Info("job completed", logger.Fields("segments", out.segments, "saved_file", out.savedFile))
	}

	elapsed := time.Since(start)
	span.SetAttributes(
		attribute.String(observability.AttrJobStatus, string(status)),
		attribute.Int(observability.AttrSegments, out.segments),
	)
	r.metrics.RecordJob(ctx, string(status), elapsed, out.segments)
	log.Debug("job finished", logger.DurationFields("run", elapsed))
	return status
}

func (r *Runner) execute(ctx context.Context, job Job, log *logger.Logger) (out outcome, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = apperrors.Internal(fmt.Errorf("panic: %v", rec))
		}
	}()

	audioPath, err := r.store.Path(ctx, job.InputPath)
	if err != nil {
		return out, apperrors.StorageFailure("locate input", err)
	}

	it, err := r.engine.Transcribe(ctx, transcription.Request{AudioPath: audioPath})
	if err != nil {
		return out, apperrors.EngineFailure(r.engine.Name(), err)
	}
	// Closed before the deferred cleanup deletes the input.
	defer func() {
		if cerr := it.Close(); cerr != nil {
			log.Debug("close segment stream", logger.ErrorFields("close", cerr))
		}
	}()

	var lines []string
	for {
		seg, ok, err := it.Next(ctx)
		if err != nil {
			return out, apperrors.EngineFailure(r.engine.Name(), err)
		}
		if !ok {
			break
		}
		text := strings.TrimSpace(seg.Text)
		r.publish(ctx, log, event.Segment(job.ID, text, seg.Start, seg.End))
		lines = append(lines, text)
		out.segments++
	}
	out.transcript = strings.Join(lines, "\n")

	if name := job.OutputFile(); name != "" {
		if err := r.store.Upload(ctx, name, strings.NewReader(out.transcript)); err != nil {
			return out, apperrors.StorageFailure("save transcript", err)
		}
		saved, err := r.store.Path(ctx, name)
		if err != nil {
			return out, apperrors.StorageFailure("locate transcript", err)
		}
		out.savedFile = saved
	}
	return out, nil
}

// publish delivers e; failures are logged and never affect the job.
func (r *Runner) publish(ctx context.Context, log *logger.Logger, e event.Event) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("publisher panicked", logger.Fields("type", string(e.Type), "panic", fmt.Sprint(rec)))
		}
	}()
	if err := r.publisher.Publish(ctx, e); err != nil {
		log.Warn("publish event failed", logger.Fields("type", string(e.Type), logger.FieldError, err.Error()))
	}
}

// cleanup deletes the input file. It runs exactly once per job and is not
// affected by cancellation of ctx.
func (r *Runner) cleanup(ctx context.Context, job Job, log *logger.Logger) {
	if err := r.store.Delete(context.WithoutCancel(ctx), job.InputPath); err != nil {
		log.Warn("failed to delete input file", logger.Fields(logger.FieldPath, job.InputPath, logger.FieldError, err.Error()))
		return
	}
	log.Debug("input file deleted", logger.Fields(logger.FieldPath, job.InputPath))
}
