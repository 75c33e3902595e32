package storage

import "fmt"

const (
	ProviderLocal = "local"

	DefaultProvider = ProviderLocal
	DefaultBasePath = "uploads"
)

// Config holds storage configuration.
type Config struct {
	// Provider selects the backend registered under that name.
	Provider string `mapstructure:"provider" json:"provider"`
	// BasePath is the root directory for the local backend.
	BasePath string `mapstructure:"base_path" json:"base_path"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("storage: provider is required")
	}
	if c.Provider == ProviderLocal && c.BasePath == "" {
		return fmt.Errorf("storage: base_path is required for local provider")
	}
	return nil
}
