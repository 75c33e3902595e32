// Package errors provides the service error type.
//
// AppError carries a machine-readable code, an HTTP status and an optional
// cause. Handlers render it as a flat {"error": message} body; background
// jobs flatten any error into its Error() text.
package errors
