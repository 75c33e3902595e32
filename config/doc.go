// Package config loads service configuration with Viper.
//
// A YAML file (cmd/<service>/config.yml by default) provides the base
// values. A .env file and the process environment override them; only
// variables carrying the service prefix are considered, so
// STREAMSCRIBE_SERVER_PORT=9000 sets server.port.
//
//	var cfg app.Config
//	err := config.LoadConfig("streamscribe", &cfg)
package config
