package transcription

import (
	"fmt"
	"time"
)

// Defaults for engine configuration.
const (
	DefaultProvider      = "whisper"
	DefaultURL           = "http://localhost:8387"
	DefaultModel         = "medium"
	DefaultDevice        = "cuda"
	DefaultComputeType   = "float16"
	DefaultTimeout       = 30 * time.Minute
	DefaultMaxConcurrent = 1
)

// Config selects and configures the transcription engine.
type Config struct {
	// Provider is the registered backend name ("whisper" or "fasterwhisper").
	Provider    string `mapstructure:"provider"`
	Model       string `mapstructure:"model"`
	Language    string `mapstructure:"language"`
	Device      string `mapstructure:"device"`
	ComputeType string `mapstructure:"compute_type"`
	// Timeout bounds a single transcription, stream included.
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxConcurrent is how many transcriptions may run at once.
	MaxConcurrent int `mapstructure:"max_concurrent"`

	// URL is the sidecar base URL (whisper).
	URL string `mapstructure:"url"`

	// Binary and Args describe the CLI (fasterwhisper).
	Binary string   `mapstructure:"binary"`
	Args   []string `mapstructure:"args"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Device == "" {
		c.Device = DefaultDevice
	}
	if c.ComputeType == "" {
		c.ComputeType = DefaultComputeType
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = DefaultMaxConcurrent
	}
	if c.URL == "" {
		c.URL = DefaultURL
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if c.MaxConcurrent < 1 {
		return fmt.Errorf("max_concurrent must be >= 1")
	}
	return nil
}

// ToMap renders the config for a provider.Factory.
func (c *Config) ToMap() map[string]any {
	return map[string]any{
		"url":          c.URL,
		"model":        c.Model,
		"language":     c.Language,
		"device":       c.Device,
		"compute_type": c.ComputeType,
		"timeout":      c.Timeout,
		"binary":       c.Binary,
		"args":         c.Args,
	}
}
