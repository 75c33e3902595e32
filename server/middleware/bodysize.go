package middleware

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/kbukum/streamscribe/errors"
	"github.com/kbukum/streamscribe/util"
)

// DefaultMaxBodySize applies when the configured size cannot be parsed.
const DefaultMaxBodySize = 100 * 1024 * 1024

// BodySizeLimit returns middleware that restricts the request body to the
// given size string (e.g. "100MB", "512KB"). Bodies that declare a larger
// Content-Length are rejected with 413 up front; streamed bodies fail on
// read with *http.MaxBytesError.
func BodySizeLimit(maxSize string) Middleware {
	size := util.ParseSize(maxSize, DefaultMaxBodySize)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > size {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_ = json.NewEncoder(w).Encode(apperrors.PayloadTooLarge(maxSize).ToResponse())
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, size)
			next.ServeHTTP(w, r)
		})
	}
}
