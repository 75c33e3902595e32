// Package server provides the HTTP server: Gin routing behind an h2c
// handler, a net/http middleware chain and the operational endpoints.
//
// # Middleware
//
// Applied around every route, outermost first (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: X-Request-Id generation and propagation
//   - CORS: cross-origin headers and preflight handling
//   - BodySizeLimit: request body cap parsed from sizes like "100MB"
//   - RequestLogger: method, path, status and duration per request
//
// # Endpoints
//
// Registered by RegisterDefaultEndpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /liveness: process liveness probe
//   - /version: build version information
package server
