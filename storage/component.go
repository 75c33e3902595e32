package storage

import (
	"context"
	"fmt"

	"github.com/kbukum/streamscribe/component"
	"github.com/kbukum/streamscribe/logger"
)

// Component wraps a Storage backend for lifecycle management. The backend
// is built eagerly so handlers can be wired before Start.
type Component struct {
	storage Storage
	cfg     Config
	log     *logger.Logger
}

var _ component.Component = (*Component)(nil)

// NewComponent builds the configured backend.
func NewComponent(cfg Config, log *logger.Logger) (*Component, error) {
	cfg.ApplyDefaults()
	l := log.WithComponent("storage")
	s, err := New(cfg, l)
	if err != nil {
		return nil, err
	}
	return &Component{storage: s, cfg: cfg, log: l}, nil
}

// Storage returns the underlying backend.
func (c *Component) Storage() Storage { return c.storage }

func (c *Component) Name() string { return "storage" }

// Start lists the storage root once to fail fast on permission problems.
func (c *Component) Start(ctx context.Context) error {
	files, err := c.storage.List(ctx, "")
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.log.Info("storage ready", map[string]interface{}{"objects": len(files)})
	return nil
}

func (c *Component) Stop(_ context.Context) error { return nil }

// Health probes the backend with an Exists call.
func (c *Component) Health(ctx context.Context) component.Health {
	if _, err := c.storage.Exists(ctx, ".health"); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("health probe failed: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns infrastructure summary info for the startup display.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Storage",
		Type:    "storage",
		Details: fmt.Sprintf("provider=%s base_path=%s", c.cfg.Provider, c.cfg.BasePath),
	}
}
