package event

import (
	"context"
	"errors"

	"github.com/kbukum/streamscribe/logger"
)

// Fanout publishes each event to every publisher in order. A failing
// publisher is logged and does not stop the others.
type Fanout struct {
	publishers []Publisher
	log        *logger.Logger
}

// NewFanout creates a Fanout over publishers.
func NewFanout(log *logger.Logger, publishers ...Publisher) *Fanout {
	if log == nil {
		log = logger.Nop()
	}
	return &Fanout{publishers: publishers, log: log.WithComponent("events")}
}

// Publish delivers e to all publishers and joins their errors.
func (f *Fanout) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range f.publishers {
		if err := p.Publish(ctx, e); err != nil {
			f.log.Warn("publish failed", logger.Fields("type", string(e.Type), logger.FieldError, err.Error()))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
