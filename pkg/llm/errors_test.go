package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	err := &Error{Type: ErrorTypeEndpoint, Message: "server error", StatusCode: 503}
	if got := err.Error(); !strings.Contains(got, "HTTP 503") {
		t.Errorf("expected status code in message, got: %s", got)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewError(ErrorTypeEndpoint, "connection failed", true, cause)
	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantType      ErrorType
		wantRetryable bool
	}{
		{"quota keyword", errors.New("insufficient_quota: plan limit reached"), ErrorTypeQuota, false},
		{"billing keyword", errors.New("your credit balance is too low"), ErrorTypeQuota, false},
		{"http 402", errors.New("status code: 402"), ErrorTypeQuota, false},
		{"http 429", errors.New("status code: 429"), ErrorTypeRateLimited, true},
		{"rate limit keyword", errors.New("rate limit exceeded, retry later"), ErrorTypeRateLimited, true},
		{"overloaded", errors.New("overloaded_error: try again"), ErrorTypeRateLimited, true},
		{"http 401", errors.New("status code: 401 invalid api key"), ErrorTypeAuth, false},
		{"deadline exceeded", fmt.Errorf("call failed: %w", context.DeadlineExceeded), ErrorTypeProtocol, false},
		{"connection refused", errors.New("dial tcp: connection refused"), ErrorTypeEndpoint, true},
		{"http 500", errors.New("status code: 500 internal error"), ErrorTypeEndpoint, true},
		{"unclassified", errors.New("something strange"), ErrorTypeUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := ClassifyError(tt.err)
			var provErr *Error
			if !errors.As(classified, &provErr) {
				t.Fatalf("expected *Error, got %T", classified)
			}
			if provErr.Type != tt.wantType {
				t.Errorf("type: expected %s, got %s", tt.wantType, provErr.Type)
			}
			if provErr.Retryable != tt.wantRetryable {
				t.Errorf("retryable: expected %v, got %v", tt.wantRetryable, provErr.Retryable)
			}
		})
	}
}

func TestClassifyError_QuotaBeforeRateLimit(t *testing.T) {
	// A 429 carrying insufficient_quota is a quota exhaustion, not a
	// transient rate limit.
	classified := ClassifyError(errors.New("status code: 429 insufficient_quota"))
	var provErr *Error
	if !errors.As(classified, &provErr) {
		t.Fatalf("expected *Error, got %T", classified)
	}
	if provErr.Type != ErrorTypeQuota {
		t.Errorf("expected quota classification, got %s", provErr.Type)
	}
}

func TestClassifyError_Nil(t *testing.T) {
	if ClassifyError(nil) != nil {
		t.Error("expected nil for nil input")
	}
}
