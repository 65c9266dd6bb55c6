package errors

import (
	"fmt"
	"net/http"
)

// NewValidationError creates a validation error with field context
func NewValidationError(field, value, message string) *AppError {
	return New(ErrCodeValidationFailed, message).
		WithContext("field", field).
		WithContext("value", value).
		WithUserMessage(fmt.Sprintf("Invalid %s: %s", field, message))
}

// NewScheduledEventError creates the error returned when a scheduled event
// cannot be built from the caller's parameters.
func NewScheduledEventError(message string) *AppError {
	return New(ErrCodeCreateScheduledEvent, message).
		WithUserMessage(message)
}

// NewConfigError creates a configuration error
func NewConfigError(key, message string) *AppError {
	return New(ErrCodeInvalidConfig, message).
		WithContext("config_key", key).
		WithUserMessage("Configuration error")
}

// NewStoreError creates a snapshot store error with operation context
func NewStoreError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeStore, fmt.Sprintf("store %s failed", operation)).
		WithContext("operation", operation).
		WithUserMessage("Snapshot store operation failed")
}

// NewBridgeError creates an error for a failed bridge round trip. The status
// code decides whether the call may be retried; zero means the transport
// failed before any response arrived.
func NewBridgeError(fn string, statusCode int, err error) *AppError {
	appErr := Wrap(err, ErrCodeBridgeCall, fmt.Sprintf("bridge call %s failed", fn)).
		WithContext("fn", fn)

	if statusCode != 0 {
		appErr.WithContext("status_code", statusCode)
	}

	appErr.Retryable = statusCode == 0 || statusCode >= 500 ||
		statusCode == http.StatusTooManyRequests || statusCode == http.StatusRequestTimeout

	return appErr
}

// NewEvaluationError reports an exception raised inside the browser runtime.
// These never succeed on retry.
func NewEvaluationError(fn, message string) *AppError {
	return New(ErrCodeBridgeEvaluation, message).
		WithContext("fn", fn).
		WithUserMessage("Browser runtime rejected the call")
}

// NewStructuralError reports a raw payload missing a field an operation
// needs, such as an entity without a serialized id.
func NewStructuralError(entity, field string) *AppError {
	return New(ErrCodeStructuralAccess, fmt.Sprintf("%s payload has no %s", entity, field)).
		WithContext("entity", entity).
		WithContext("field", field)
}

// NewTimeoutError creates a timeout error with context
func NewTimeoutError(operation string, duration string) *AppError {
	return New(ErrCodeTimeout, fmt.Sprintf("%s timed out after %s", operation, duration)).
		WithContext("operation", operation).
		WithContext("timeout", duration).
		WithUserMessage("Operation timed out, please try again")
}

// NewNotFoundError creates a not found error with resource context
func NewNotFoundError(resource, identifier string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithContext("resource", resource).
		WithContext("identifier", identifier).
		WithUserMessage(fmt.Sprintf("%s not found", resource))
}

// NewMediaError creates a media processing error
func NewMediaError(operation, mediaType string, err error) *AppError {
	return Wrap(err, ErrCodeMediaDownload, fmt.Sprintf("media %s failed", operation)).
		WithContext("operation", operation).
		WithContext("media_type", mediaType).
		WithUserMessage("Media processing failed")
}

// HTTPStatusCode maps error codes to appropriate HTTP status codes
func HTTPStatusCode(err error) int {
	switch GetCode(err) {
	case ErrCodeValidationFailed, ErrCodeInvalidInput, ErrCodeInvalidConfig,
		ErrCodeCreateScheduledEvent, ErrCodeStructuralAccess:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeBridgeCall, ErrCodeBridgeEvaluation, ErrCodeMediaDownload:
		if IsRetryable(err) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	case ErrCodeBridgeUnavailable, ErrCodeStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HTTPErrorResponse is the JSON body written for failed requests
type HTTPErrorResponse struct {
	Error struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Context interface{} `json:"context,omitempty"`
	} `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// ToHTTPResponse converts an error to a standardized HTTP response
func ToHTTPResponse(err error, requestID string) HTTPErrorResponse {
	response := HTTPErrorResponse{RequestID: requestID}

	if appErr, ok := As(err); ok {
		response.Error.Code = appErr.Code
		response.Error.Message = GetUserMessage(err)
		response.Error.Context = appErr.Context
		return response
	}

	response.Error.Code = ErrCodeInternalError
	response.Error.Message = "An internal error occurred"
	return response
}
