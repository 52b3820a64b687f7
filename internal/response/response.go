package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Error codes shared by services and handlers
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeFailedPrecondition = "FAILED_PRECONDITION"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrCodeUnavailable        = "SERVICE_UNAVAILABLE"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// SuccessResponse wraps every successful payload
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorResponse wraps every error payload
type ErrorResponse struct {
	Error     ErrorDetail `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorDetail is the body of an ErrorResponse
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AppError is the error type returned by the service layer
type AppError struct {
	Code    string
	Message string
	Details string
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates an AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewNotFoundError creates a NOT_FOUND error
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewForbiddenError creates a FORBIDDEN error
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// NewValidationError creates a VALIDATION_ERROR error
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewUnauthorizedError creates an UNAUTHORIZED error
func NewUnauthorizedError(message, details string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, details)
}

// NewFailedPreconditionError creates a FAILED_PRECONDITION error
func NewFailedPreconditionError(message, details string) *AppError {
	return NewAppError(ErrCodeFailedPrecondition, message, details)
}

// NewInternalError creates an INTERNAL_ERROR error
func NewInternalError(message, details string) *AppError {
	return NewAppError(ErrCodeInternal, message, details)
}

// SendSuccess writes data wrapped in a SuccessResponse
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: c.GetString("request_id"),
	})
}

// SendError writes an ErrorResponse
func SendError(c *gin.Context, status int, code, message string) {
	c.JSON(status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
		RequestID: c.GetString("request_id"),
	})
}
