package apperror

import "net/http"

// AppError is an error carrying the HTTP status code the edge layer should
// respond with. Domain packages declare sentinel AppErrors; handlers pass them
// to response.Error unchanged.
type AppError struct {
	Code    int    // HTTP status code (400, 404, 409, ...)
	Message string // User-facing message
	Err     error  // Underlying error, never exposed to the client
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates an AppError with a status code and message.
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates an AppError wrapping an existing error.
func Wrap(err error, code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// InvalidArgument creates a 400 AppError.
func InvalidArgument(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// NotFound creates a 404 AppError.
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// Conflict creates a 409 AppError.
func Conflict(message string) *AppError {
	return New(http.StatusConflict, message)
}
