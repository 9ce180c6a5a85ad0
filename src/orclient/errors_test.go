package orclient

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	tests := []struct {
		name        string
		err         *APIError
		expectedMsg string
		isRateLimit bool
		isAuthError bool
	}{
		{
			name:        "basic error",
			err:         &APIError{StatusCode: 400, Message: "Bad request"},
			expectedMsg: "API error 400: Bad request",
		},
		{
			name:        "error with type",
			err:         &APIError{StatusCode: 403, Message: "Forbidden", Type: "invalid_request_error"},
			expectedMsg: "API error 403 (invalid_request_error): Forbidden",
		},
		{
			name:        "rate limit error",
			err:         &APIError{StatusCode: 429, Message: "Too many requests"},
			expectedMsg: "API error 429: Too many requests",
			isRateLimit: true,
		},
		{
			name:        "auth error",
			err:         &APIError{StatusCode: 401, Message: "Invalid API key"},
			expectedMsg: "API error 401: Invalid API key",
			isAuthError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expectedMsg {
				t.Errorf("Error() = %q, want %q", got, tt.expectedMsg)
			}
			if got := tt.err.IsRateLimit(); got != tt.isRateLimit {
				t.Errorf("IsRateLimit() = %v, want %v", got, tt.isRateLimit)
			}
			if got := tt.err.IsAuthError(); got != tt.isAuthError {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.isAuthError)
			}
		})
	}
}

func TestTransportErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := &TransportError{Op: "stream request", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("expected TransportError to unwrap to its cause")
	}
	want := fmt.Sprintf("stream request failed: %v", cause)
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
