package local

import (
	"fmt"

	"github.com/kbukum/streamscribe/storage"
)

// Config holds local filesystem storage configuration.
type Config struct {
	BasePath string `mapstructure:"base_path" json:"base_path"`
	// DirMode and FileMode default to 0750 and 0640.
	DirMode  uint32 `mapstructure:"dir_mode" json:"dir_mode"`
	FileMode uint32 `mapstructure:"file_mode" json:"file_mode"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = storage.DefaultBasePath
	}
	if c.DirMode == 0 {
		c.DirMode = 0o750
	}
	if c.FileMode == 0 {
		c.FileMode = 0o640
	}
}

// Validate checks that the local configuration is valid.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("local: base_path is required")
	}
	return nil
}
