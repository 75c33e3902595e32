package app

import (
	"fmt"
	"time"

	"github.com/kbukum/streamscribe/config"
	"github.com/kbukum/streamscribe/event"
	"github.com/kbukum/streamscribe/observability"
	"github.com/kbukum/streamscribe/redis"
	"github.com/kbukum/streamscribe/server"
	"github.com/kbukum/streamscribe/sse"
	"github.com/kbukum/streamscribe/storage"
	"github.com/kbukum/streamscribe/transcription"
	"github.com/kbukum/streamscribe/version"
)

// ServiceName names the binary, its config directory and env prefix.
const ServiceName = "streamscribe"

// Defaults for the app-level sections.
const (
	DefaultEventsPath = "/events"
	DefaultStaticDir  = "static"
)

// Config is the full service configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Transcription transcription.Config `yaml:"transcription" mapstructure:"transcription"`
	Events        EventsConfig         `yaml:"events" mapstructure:"events"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Web           WebConfig            `yaml:"web" mapstructure:"web"`
}

// EventsConfig configures real-time delivery.
type EventsConfig struct {
	// Path is the SSE endpoint.
	Path string `yaml:"path" mapstructure:"path"`
	// KeepAlive is the interval between keep-alive comments.
	KeepAlive time.Duration `yaml:"keep_alive" mapstructure:"keep_alive"`
	// Redis mirrors every event to a pub/sub channel.
	Redis RelayConfig `yaml:"redis" mapstructure:"redis"`
}

// RelayConfig configures the Redis event mirror.
type RelayConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Channel string `yaml:"channel" mapstructure:"channel"`
}

// WebConfig configures the upload page.
type WebConfig struct {
	// StaticDir holds index.html, served at GET /. Empty disables it.
	StaticDir string `yaml:"static_dir" mapstructure:"static_dir"`
}

// ApplyDefaults fills every section.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	if c.Version == "" {
		c.Version = version.Short()
	}
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.Observability.ApplyDefaults()

	if c.Events.Path == "" {
		c.Events.Path = DefaultEventsPath
	}
	if c.Events.KeepAlive == 0 {
		c.Events.KeepAlive = sse.DefaultKeepAlive
	}
	if c.Events.Redis.Channel == "" {
		c.Events.Redis.Channel = event.DefaultRedisChannel
	}
	// The relay needs a connection.
	if c.Events.Redis.Enabled {
		c.Redis.Enabled = true
	}
	c.Redis.ApplyDefaults()

	if c.Web.StaticDir == "" {
		c.Web.StaticDir = DefaultStaticDir
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	sections := []struct {
		name string
		v    interface{ Validate() error }
	}{
		{"server", &c.Server},
		{"storage", &c.Storage},
		{"transcription", &c.Transcription},
		{"redis", &c.Redis},
		{"observability", &c.Observability},
	}
	for _, s := range sections {
		if err := s.v.Validate(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	if c.Events.KeepAlive < 0 {
		return fmt.Errorf("events: keep_alive must not be negative")
	}
	return nil
}

// ResourceInfo describes the service for telemetry.
func (c *Config) ResourceInfo() observability.ResourceInfo {
	return observability.ResourceInfo{
		ServiceName:    c.Name,
		ServiceVersion: c.Version,
		Environment:    c.Environment,
	}
}
