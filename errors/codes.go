package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Request errors
const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
)

// Availability errors (retryable)
const (
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            ErrorCode = "TIMEOUT"
)

// Internal errors
const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeStorage         ErrorCode = "STORAGE_ERROR"
	ErrCodeEngine          ErrorCode = "ENGINE_ERROR"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeExternalService:    true,
}

// IsRetryableCode reports whether the code describes a transient failure.
// Nothing in the job pipeline retries; the flag is informational.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
