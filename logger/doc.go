// Package logger provides structured logging for streamscribe using zerolog.
//
// It supports console and JSON output, level configuration and
// component-scoped loggers carrying structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//
// # Usage
//
//	log := logger.WithComponent("jobs")
//	log.Info("job started", logger.Fields(logger.FieldJobID, id))
package logger
