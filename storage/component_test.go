package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/kbukum/streamscribe/component"
	"github.com/kbukum/streamscribe/logger"
	"github.com/kbukum/streamscribe/storage"
	_ "github.com/kbukum/streamscribe/storage/local"
)

func TestComponentLifecycle(t *testing.T) {
	c, err := storage.NewComponent(storage.Config{BasePath: t.TempDir()}, logger.Nop())
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("health = %+v", h)
	}
	if d := c.Describe(); !strings.Contains(d.Details, "provider=local") {
		t.Errorf("describe = %+v", d)
	}
	if err := c.Stop(ctx); err != nil {
		t.Errorf("Stop: %v", err)
	}
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := storage.New(storage.Config{Provider: "s3"}, logger.Nop())
	if err == nil || !strings.Contains(err.Error(), "unsupported provider") {
		t.Errorf("expected unsupported provider error, got %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg storage.Config
	cfg.ApplyDefaults()
	if cfg.Provider != storage.ProviderLocal || cfg.BasePath != "uploads" {
		t.Errorf("defaults = %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
