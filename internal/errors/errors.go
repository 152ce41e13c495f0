package errors

import (
	"net/http"
)

// ErrorCode represents a standardized error code
type ErrorCode string

const (
	// Authentication errors (401xx)
	ErrInvalidCredentials ErrorCode = "40101"
	ErrTokenExpired       ErrorCode = "40102"

	// Authorization errors (403xx)
	ErrForbidden        ErrorCode = "40301"
	ErrCampaignNotOwned ErrorCode = "40302"

	// Resource errors (404xx)
	ErrCampaignNotFound   ErrorCode = "40401"
	ErrUserNotFound       ErrorCode = "40402"
	ErrSubmissionNotFound ErrorCode = "40403"
	ErrPayoutNotFound     ErrorCode = "40404"

	// Request errors (400xx)
	ErrInvalidRequest   ErrorCode = "40001"
	ErrValidationFailed ErrorCode = "40002"

	// Conflict errors (409xx)
	ErrDuplicateSubmission ErrorCode = "40901"

	// Server errors (500xx)
	ErrInternalServer  ErrorCode = "50001"
	ErrPaymentProvider ErrorCode = "50201"
)

// APIError represents a standardized API error
type APIError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Details    any       `json:"details,omitempty"`
	HTTPStatus int       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// ErrorResponse represents the error response format
type ErrorResponse struct {
	Error     APIError `json:"error"`
	RequestID string   `json:"request_id"`
}

// NewErrorResponse builds the response envelope for an API error
func NewErrorResponse(err *APIError, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     *err,
		RequestID: requestID,
	}
}

// Common errors
var (
	ErrInvalidCredentialsError = &APIError{
		Code:       ErrInvalidCredentials,
		Message:    "Invalid email or password",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrTokenExpiredError = &APIError{
		Code:       ErrTokenExpired,
		Message:    "Token has expired",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrForbiddenError = &APIError{
		Code:       ErrForbidden,
		Message:    "Access denied",
		HTTPStatus: http.StatusForbidden,
	}

	ErrCampaignNotFoundError = &APIError{
		Code:       ErrCampaignNotFound,
		Message:    "Campaign not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrUserNotFoundError = &APIError{
		Code:       ErrUserNotFound,
		Message:    "User not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrSubmissionNotFoundError = &APIError{
		Code:       ErrSubmissionNotFound,
		Message:    "Submission not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrPayoutNotFoundError = &APIError{
		Code:       ErrPayoutNotFound,
		Message:    "Payout not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrDuplicateSubmissionError = &APIError{
		Code:       ErrDuplicateSubmission,
		Message:    "This video has already been submitted to the campaign",
		HTTPStatus: http.StatusConflict,
	}

	ErrInternalServerError = &APIError{
		Code:       ErrInternalServer,
		Message:    "Internal server error",
		HTTPStatus: http.StatusInternalServerError,
	}
)

// NewValidationError creates a validation error with details
func NewValidationError(details any) *APIError {
	return &APIError{
		Code:       ErrValidationFailed,
		Message:    "Validation failed",
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:       ErrInvalidRequest,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewPaymentProviderError creates an error for payment platform failures.
// The provider message is passed through verbatim so clients can surface it.
func NewPaymentProviderError(message string) *APIError {
	return &APIError{
		Code:       ErrPaymentProvider,
		Message:    message,
		HTTPStatus: http.StatusBadGateway,
	}
}
