package bootstrap

import "github.com/kbukum/streamscribe/config"

// Config is satisfied by any struct embedding config.ServiceConfig that
// provides its own ApplyDefaults and Validate.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
