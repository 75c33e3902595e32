package redis

import (
	"errors"
	"time"
)

// Config configures the Redis connection used by the event relay.
type Config struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`

	PoolSize   int `mapstructure:"pool_size"`
	MaxRetries int `mapstructure:"max_retries"`

	// Timeouts accept duration strings such as "5s".
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// ApplyDefaults fills zero fields.
func (c *Config) ApplyDefaults() {
	if c.Addr == "" {
		c.Addr = "localhost:6379"
	}
	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 5 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 3 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 3 * time.Second
	}
}

// Validate is a no-op when Redis is disabled.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("redis.addr is required"))
	}
	if c.PoolSize <= 0 {
		errs = append(errs, errors.New("redis.pool_size must be > 0"))
	}
	if c.DB < 0 {
		errs = append(errs, errors.New("redis.db must be >= 0"))
	}
	return errors.Join(errs...)
}
