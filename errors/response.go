package errors

// ErrorResponse is the JSON body returned to HTTP clients.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ToResponse converts an AppError to its client body. Internal causes are
// not exposed.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}
