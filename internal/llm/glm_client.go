package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	apperror "avara-relay/internal/error"
)

const (
	DefaultBaseURL = "https://open.bigmodel.cn/api/paas/v4/chat/completions"
	DefaultModel   = "glm-4"
	DefaultTimeout = 60 * time.Second
)

// Client interface for LLM operations
type Client interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}

// GLMClient handles communication with the Zhipu GLM chat completion API
type GLMClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewGLMClient creates a new GLM client. A zero timeout falls back to DefaultTimeout.
func NewGLMClient(apiKey, baseURL, model string, timeout time.Duration) *GLMClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &GLMClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: timeout,
			// A 3xx is an answer like any other non-2xx; one call per relay
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Chat performs a single non-streaming chat completion and returns the first choice's content.
// Failures are returned as *apperror.AppError.
func (c *GLMClient) Chat(ctx context.Context, messages []Message) (string, error) {
	reqBody := ChatRequest{
		Model:    c.model,
		Messages: messages,
	}

	resp, err := c.doRequest(ctx, reqBody)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		if isTimeout(err) {
			return "", apperror.NewTimeoutError("timed out reading response", err)
		}
		return "", apperror.NewInternalError("failed to decode response", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", apperror.NewUpstreamShapeError("unexpected API response", apperror.ErrNoChoices)
	}

	choice := chatResp.Choices[0]
	if choice.Message == nil {
		return "", apperror.NewInternalError("malformed completion choice", apperror.ErrNoMessage)
	}

	return choice.Message.Content, nil
}
