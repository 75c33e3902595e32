package jobs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/kbukum/streamscribe/component"
	"github.com/kbukum/streamscribe/logger"
)

var _ component.Component = (*Dispatcher)(nil)

// Dispatcher runs each job on its own goroutine with a context detached
// from the request. There is no queue and no admission control; the only
// bookkeeping is a wait group so shutdown can let in-flight jobs finish.
type Dispatcher struct {
	executor Executor
	log      *logger.Logger
	wg       sync.WaitGroup
	inFlight atomic.Int64
	total    atomic.Int64
}

// NewDispatcher creates a Dispatcher that runs jobs with executor.
func NewDispatcher(executor Executor, log *logger.Logger) *Dispatcher {
	if log == nil {
		log = logger.Nop()
	}
	return &Dispatcher{executor: executor, log: log.WithComponent("dispatcher")}
}

// Dispatch starts job in the background and returns immediately.
func (d *Dispatcher) Dispatch(job Job) {
	d.wg.Add(1)
	d.inFlight.Add(1)
	d.total.Add(1)
	d.log.Debug("job dispatched", logger.Fields(logger.FieldJobID, job.ID, logger.FieldStatus, string(StatusAccepted)))

	go func() {
		defer d.wg.Done()
		defer d.inFlight.Add(-1)
		defer func() {
			if rec := recover(); rec != nil {
				d.log.Error("job panicked", logger.Fields(logger.FieldJobID, job.ID, "panic", fmt.Sprint(rec)))
			}
		}()
		d.executor.Run(context.Background(), job)
	}()
}

// InFlight returns the number of jobs currently running.
func (d *Dispatcher) InFlight() int64 { return d.inFlight.Load() }

// Wait blocks until every dispatched job has finished.
func (d *Dispatcher) Wait() { d.wg.Wait() }

// Name returns the component name.
func (d *Dispatcher) Name() string { return "jobs" }

// Start is a no-op; jobs start on Dispatch.
func (d *Dispatcher) Start(_ context.Context) error { return nil }

// Stop waits for in-flight jobs until ctx ends.
func (d *Dispatcher) Stop(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	if n := d.InFlight(); n > 0 {
		d.log.Info("waiting for in-flight jobs", logger.Fields("count", n))
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("jobs: %d still running: %w", d.InFlight(), ctx.Err())
	}
}

// Health reports job counters.
func (d *Dispatcher) Health(_ context.Context) component.Health {
	return component.Health{
		Name:    d.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%d running, %d dispatched", d.InFlight(), d.total.Load()),
	}
}
