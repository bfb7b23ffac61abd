package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	apperror "avara-relay/internal/error"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestGLMClient_Chat_RequestShape(t *testing.T) {
	var got ChatRequest
	var auth string

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode upstream request: %v", err)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hi"}}]}`))
	})

	client := NewGLMClient("secret", srv.URL, "glm-4", time.Second)
	if _, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "Hello"}}); err != nil {
		t.Fatalf("Chat() error = %v", err)
	}

	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q, want %q", auth, "Bearer secret")
	}
	if got.Model != "glm-4" {
		t.Errorf("model = %q, want glm-4", got.Model)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "Hello" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
}

func TestGLMClient_Chat(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		want     string
		wantType apperror.ErrorType
	}{
		{
			name:   "first choice",
			status: http.StatusOK,
			body:   `{"choices":[{"message":{"content":"X"}},{"message":{"content":"Y"}}]}`,
			want:   "X",
		},
		{
			name:     "no choices",
			status:   http.StatusOK,
			body:     `{"choices":[]}`,
			wantType: apperror.ErrorTypeUpstreamShape,
		},
		{
			name:     "missing choices field",
			status:   http.StatusOK,
			body:     `{}`,
			wantType: apperror.ErrorTypeUpstreamShape,
		},
		{
			name:     "choice without message",
			status:   http.StatusOK,
			body:     `{"choices":[{"index":0}]}`,
			wantType: apperror.ErrorTypeInternal,
		},
		{
			name:     "malformed json",
			status:   http.StatusOK,
			body:     `not json`,
			wantType: apperror.ErrorTypeInternal,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     `{"error":"boom"}`,
			wantType: apperror.ErrorTypeUpstreamStatus,
		},
		{
			name:     "temporary redirect",
			status:   http.StatusTemporaryRedirect,
			body:     ``,
			wantType: apperror.ErrorTypeUpstreamStatus,
		},
		{
			name:     "unauthorized",
			status:   http.StatusUnauthorized,
			body:     `{"error":"bad key"}`,
			wantType: apperror.ErrorTypeUpstreamStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			client := NewGLMClient("key", srv.URL, "", time.Second)
			got, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "q"}})

			if tt.wantType == "" {
				if err != nil {
					t.Fatalf("Chat() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("Chat() = %q, want %q", got, tt.want)
				}
				return
			}

			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("Chat() error = %v, want *AppError", err)
			}
			if appErr.Type != tt.wantType {
				t.Errorf("error type = %s, want %s", appErr.Type, tt.wantType)
			}
			if tt.wantType == apperror.ErrorTypeUpstreamStatus && appErr.UpstreamStatus != tt.status {
				t.Errorf("UpstreamStatus = %d, want %d", appErr.UpstreamStatus, tt.status)
			}
		})
	}
}

func TestGLMClient_Chat_DoesNotFollowRedirects(t *testing.T) {
	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.URL.Path == "/final" {
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"X"}}]}`))
			return
		}
		http.Redirect(w, r, "/final", http.StatusTemporaryRedirect)
	})

	client := NewGLMClient("key", srv.URL, "", time.Second)
	got, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "q"}})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperror.ErrorTypeUpstreamStatus {
		t.Fatalf("Chat() = %q, %v, want upstream status error", got, err)
	}
	if appErr.UpstreamStatus != http.StatusTemporaryRedirect {
		t.Errorf("UpstreamStatus = %d, want 307", appErr.UpstreamStatus)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("Expected 1 upstream call, got %d", n)
	}
}

func TestGLMClient_Chat_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	client := NewGLMClient("key", srv.URL, "", 50*time.Millisecond)
	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "q"}})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperror.ErrorTypeTimeout {
		t.Fatalf("Chat() error = %v, want timeout error", err)
	}
}

func TestGLMClient_Chat_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewGLMClient("key", url, "", time.Second)
	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "q"}})

	var appErr *apperror.AppError
	if !errors.As(err, &appErr) || appErr.Type != apperror.ErrorTypeTransport {
		t.Fatalf("Chat() error = %v, want transport error", err)
	}
}

func TestNewGLMClient_Defaults(t *testing.T) {
	client := NewGLMClient("key", "", "", 0)

	if client.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", client.baseURL, DefaultBaseURL)
	}
	if client.model != DefaultModel {
		t.Errorf("model = %q, want %q", client.model, DefaultModel)
	}
	if client.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.httpClient.Timeout, DefaultTimeout)
	}
}
