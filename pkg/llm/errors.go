package llm

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType classifies a provider failure for boundary handling.
type ErrorType string

const (
	ErrorTypeAuth        ErrorType = "auth"
	ErrorTypeRateLimited ErrorType = "rate_limited"
	ErrorTypeQuota       ErrorType = "quota_exhausted"
	ErrorTypeEndpoint    ErrorType = "endpoint"
	ErrorTypeProtocol    ErrorType = "protocol"
	ErrorTypeUnknown     ErrorType = "unknown"
)

// Error represents a structured provider error with classification.
type Error struct {
	Type       ErrorType // Classification of the error
	Message    string    // Human-readable message
	Retryable  bool      // Whether the operation can be retried by the caller
	Cause      error     // Underlying error
	StatusCode int       // HTTP status code if applicable
	Model      string    // Model name if known
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string
	parts = append(parts, string(e.Type))

	if e.StatusCode > 0 {
		parts = append(parts, fmt.Sprintf("HTTP %d", e.StatusCode))
	}
	if e.Model != "" {
		parts = append(parts, fmt.Sprintf("model=%s", e.Model))
	}

	parts = append(parts, e.Message)

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", strings.Join(parts, " "), e.Cause)
	}
	return strings.Join(parts, " ")
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new structured provider error.
func NewError(errType ErrorType, message string, retryable bool, cause error) *Error {
	return &Error{
		Type:      errType,
		Message:   message,
		Retryable: retryable,
		Cause:     cause,
	}
}

// ClassifyError categorizes an error and returns a structured Error.
// This consolidates error classification logic for consistent handling.
func ClassifyError(err error) *Error {
	if err == nil {
		return nil
	}

	// Check if already an *Error
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr
	}

	errStr := err.Error()
	lower := strings.ToLower(errStr)

	// Extract HTTP status code from error string
	statusCode := 0
	for _, code := range []int{400, 401, 402, 403, 404, 429, 500, 502, 503, 504} {
		if strings.Contains(errStr, fmt.Sprintf("%d", code)) {
			statusCode = code
			break
		}
	}

	// Quota / billing exhaustion (not retryable without topping up)
	if strings.Contains(lower, "insufficient_quota") || strings.Contains(lower, "quota") ||
		strings.Contains(lower, "credit balance") || strings.Contains(lower, "billing") ||
		strings.Contains(errStr, "402") {
		provErr := NewError(ErrorTypeQuota, "provider quota exhausted", false, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// Rate limiting (retryable by the caller after backoff)
	if strings.Contains(errStr, "429") || strings.Contains(lower, "rate limit") ||
		strings.Contains(lower, "rate_limit") || strings.Contains(lower, "overloaded") {
		provErr := NewError(ErrorTypeRateLimited, "provider rate limited", true, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// Authentication errors (not retryable)
	if strings.Contains(errStr, "401") || strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "invalid api key") || strings.Contains(lower, "authentication_error") {
		provErr := NewError(ErrorTypeAuth, "authentication failed", false, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// Timeout and deadline exceeded: the scoring call has a bounded timeout
	// and a timed-out call is treated as a protocol failure, never retried here.
	if strings.Contains(lower, "timeout") ||
		strings.Contains(lower, "deadline exceeded") ||
		strings.Contains(lower, "context canceled") {
		provErr := NewError(ErrorTypeProtocol, "request timed out", false, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// Connection errors
	if strings.Contains(lower, "connection refused") || strings.Contains(lower, "no such host") {
		provErr := NewError(ErrorTypeEndpoint, "connection failed", true, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// 5xx server errors
	if strings.Contains(errStr, "500") || strings.Contains(errStr, "502") ||
		strings.Contains(errStr, "503") || strings.Contains(errStr, "504") {
		provErr := NewError(ErrorTypeEndpoint, "server error", true, err)
		provErr.StatusCode = statusCode
		return provErr
	}

	// Unknown error
	provErr = NewError(ErrorTypeUnknown, "provider error", false, err)
	provErr.StatusCode = statusCode
	return provErr
}

// GetErrorType extracts the ErrorType from an error.
func GetErrorType(err error) ErrorType {
	var provErr *Error
	if errors.As(err, &provErr) {
		return provErr.Type
	}
	return ErrorTypeUnknown
}
