package error

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestGetHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewValidationError("bad", nil), http.StatusUnprocessableEntity},
		{"wrapped validation", fmt.Errorf("decode: %w", NewValidationError("bad", nil)), http.StatusUnprocessableEntity},
		{"upstream status", NewUpstreamStatusError(500, "boom"), http.StatusBadGateway},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{"plain", errors.New("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestNewUpstreamStatusError(t *testing.T) {
	err := NewUpstreamStatusError(503, "overloaded")

	if err.UpstreamStatus != 503 {
		t.Errorf("UpstreamStatus = %d, want 503", err.UpstreamStatus)
	}
	if !errors.Is(err, ErrUpstreamStatus) {
		t.Error("expected error to wrap ErrUpstreamStatus")
	}
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(NewValidationError("message is required", ErrMissingMessage))
	if resp.Error.Type != ErrorTypeValidation {
		t.Errorf("Type = %s, want %s", resp.Error.Type, ErrorTypeValidation)
	}
	if resp.Error.Message != "message is required" {
		t.Errorf("Message = %q", resp.Error.Message)
	}

	resp = NewErrorResponse(errors.New("unexpected"))
	if resp.Error.Type != ErrorTypeInternal || resp.Error.Message != "unexpected" {
		t.Errorf("unexpected fallback response: %+v", resp.Error)
	}
}
