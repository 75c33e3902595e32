package transcription

import (
	"context"
	"time"

	"github.com/kbukum/streamscribe/component"
	"github.com/kbukum/streamscribe/logger"
)

// DefaultProbeTimeout bounds one availability check.
const DefaultProbeTimeout = 3 * time.Second

// Component reports engine availability through the health endpoint. It
// never blocks startup: a sidecar may come up after the service does.
type Component struct {
	engine  Provider
	timeout time.Duration
	log     *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps engine for lifecycle and health reporting.
func NewComponent(engine Provider, log *logger.Logger) *Component {
	if log == nil {
		log = logger.Nop()
	}
	return &Component{engine: engine, timeout: DefaultProbeTimeout, log: log.WithComponent("transcription")}
}

func (c *Component) Name() string { return "transcription" }

// Start logs a warning when the engine is not reachable yet.
func (c *Component) Start(ctx context.Context) error {
	if !c.available(ctx) {
		c.log.Warn("engine not available, jobs will fail until it is", logger.Fields(logger.FieldProvider, c.engine.Name()))
	}
	return nil
}

func (c *Component) Stop(_ context.Context) error { return nil }

// Health is unhealthy while the engine cannot take work.
func (c *Component) Health(ctx context.Context) component.Health {
	if !c.available(ctx) {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: c.engine.Name() + " engine not available",
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy, Message: c.engine.Name()}
}

// Describe returns the startup summary entry.
func (c *Component) Describe() component.Description {
	return component.Description{Name: "Transcription", Type: "engine", Details: "provider=" + c.engine.Name()}
}

func (c *Component) available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.engine.IsAvailable(ctx)
}
