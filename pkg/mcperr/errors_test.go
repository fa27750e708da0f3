package mcperr

import (
	"errors"
	"testing"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindInvalidParameters, 400},
		{KindMissingParameter, 400},
		{KindResourceNotFound, 404},
		{KindValidationError, 422},
		{KindRateLimitExceeded, 429},
		{KindRequestAborted, 499},
		{KindUnexpectedError, 500},
		{KindNetworkError, 503},
		{KindRequestTimeout, 504},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name: "error with wrapped error",
			err: &Error{
				Kind:       KindNetworkError,
				HTTPStatus: 503,
				Message:    "Upstream service unreachable",
				Err:        errors.New("connection refused"),
			},
			expected: "network_error (status 503): Upstream service unreachable: connection refused",
		},
		{
			name: "error without wrapped error",
			err: &Error{
				Kind:       KindResourceNotFound,
				HTTPStatus: 404,
				Message:    "Machine 'abc123' not found",
			},
			expected: "resource_not_found (status 404): Machine 'abc123' not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &Error{Kind: KindUnexpectedError, HTTPStatus: 500, Message: "oops", Err: inner}

	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestNew_DerivesStatusFromKind(t *testing.T) {
	err := New(KindRequestAborted, "Machine", "Request aborted by client")
	if err.HTTPStatus != 499 {
		t.Errorf("HTTPStatus = %d, want 499", err.HTTPStatus)
	}
	if err.ResourceName != "Machine" {
		t.Errorf("ResourceName = %q, want Machine", err.ResourceName)
	}
}
