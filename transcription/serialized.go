package transcription

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/provider"
	"github.com/kbukum/streamscribe/resilience"
)

// serialized limits how many transcriptions run at once on a shared engine.
type serialized struct {
	Provider
	bulkhead *resilience.Bulkhead
}

// Serialized wraps p so at most maxConcurrent transcriptions run at once.
// Callers wait for a slot as long as their context allows; the slot is
// held until the returned iterator is closed.
func Serialized(p Provider, maxConcurrent int, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("transcription")
	return &serialized{
		Provider: p,
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          p.Name(),
			MaxConcurrent: maxConcurrent,
			MaxWait:       resilience.WaitForever,
			OnAcquire: func(name string, waited time.Duration) {
				if waited > time.Second {
					log.Debug("engine slot acquired", logger.Fields(logger.FieldProvider, name, logger.FieldDuration, waited.Milliseconds()))
				}
			},
		}),
	}
}

func (s *serialized) Transcribe(ctx context.Context, req Request) (provider.Iterator[Segment], error) {
	release, err := s.bulkhead.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("wait for %s: %w", s.Name(), err)
	}
	// Until the iterator owns the slot, any exit (error or panic) frees it.
	handedOff := false
	defer func() {
		if !handedOff {
			release()
		}
	}()

	it, err := s.Provider.Transcribe(ctx, req)
	if err != nil {
		return nil, err
	}
	handedOff = true
	return provider.NewFuncIterator(it.Next, func() error {
		defer release()
		return it.Close()
	}), nil
}
