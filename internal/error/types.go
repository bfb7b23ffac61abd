package error

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation_error"
	ErrorTypeTimeout        ErrorType = "timeout_error"
	ErrorTypeUpstreamStatus ErrorType = "upstream_status_error"
	ErrorTypeUpstreamShape  ErrorType = "upstream_shape_error"
	ErrorTypeTransport      ErrorType = "transport_error"
	ErrorTypeInternal       ErrorType = "internal_error"
)

// AppError represents a structured application error
type AppError struct {
	Type           ErrorType `json:"type"`
	Message        string    `json:"message"`
	StatusCode     int       `json:"-"`
	UpstreamStatus int       `json:"-"`
	Err            error     `json:"-"`
}

// ------------------------------------------------------------------------------------------------------
// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// ------------------------------------------------------------------------------------------------------
func (e *AppError) Unwrap() error {
	return e.Err
}

// ------------------------------------------------------------------------------------------------------
// NewValidationError creates a validation error
func NewValidationError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		StatusCode: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewTimeoutError creates a timeout error
func NewTimeoutError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeTimeout,
		Message:    message,
		StatusCode: http.StatusGatewayTimeout,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewUpstreamStatusError records a non-2xx answer from the completion API.
// The body is kept on the wrapped error for logging.
func NewUpstreamStatusError(status int, body string) *AppError {
	return &AppError{
		Type:           ErrorTypeUpstreamStatus,
		Message:        fmt.Sprintf("completion API returned status %d", status),
		StatusCode:     http.StatusBadGateway,
		UpstreamStatus: status,
		Err:            fmt.Errorf("%w: status %d, body: %s", ErrUpstreamStatus, status, body),
	}
}

// ------------------------------------------------------------------------------------------------------
// NewUpstreamShapeError creates an error for a 2xx answer without usable content
func NewUpstreamShapeError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeUpstreamShape,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewTransportError creates an error for a failed network exchange
func NewTransportError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeTransport,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// NewInternalError creates an internal server error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Err:        err,
	}
}

// ------------------------------------------------------------------------------------------------------
// GetHTTPStatusCode returns the appropriate HTTP status code for an error
func GetHTTPStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}

	return http.StatusInternalServerError
}

// ------------------------------------------------------------------------------------------------------
// ErrorResponse represents the JSON error response structure
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ------------------------------------------------------------------------------------------------------
// ErrorDetail contains error details
type ErrorDetail struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    string    `json:"code,omitempty"`
}

// ------------------------------------------------------------------------------------------------------
// NewErrorResponse creates a standardized error response
func NewErrorResponse(err error) ErrorResponse {
	var appErr *AppError

	if errors.As(err, &appErr) {
		return ErrorResponse{
			Error: ErrorDetail{
				Type:    appErr.Type,
				Message: appErr.Message,
				Code:    string(appErr.Type),
			},
		}
	}

	return ErrorResponse{
		Error: ErrorDetail{
			Type:    ErrorTypeInternal,
			Message: err.Error(),
			Code:    string(ErrorTypeInternal),
		},
	}
}
