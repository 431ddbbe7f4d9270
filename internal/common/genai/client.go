// internal/common/genai/client.go
package genai

import (
	"context"
	"strings"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/httpclient"
)

type generateRequest struct {
	Prompt      string                 `json:"prompt"`
	Context     map[string]interface{} `json:"context,omitempty"`
	MaxTokens   int                    `json:"max_tokens,omitempty"`
	Temperature float64                `json:"temperature"`
}

type generateResponse struct {
	Text       string   `json:"text"`
	Confidence float64  `json:"confidence"`
	Sources    []string `json:"sources"`
}

// Client calls a GenAI gateway at POST {baseURL}/api/ai/generate.
type Client struct {
	baseURL     string
	maxTokens   int
	temperature float64
	timeout     time.Duration
	http        *httpclient.Client
}

func NewClient(baseURL string, maxTokens int, temperature float64, timeout time.Duration) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		maxTokens:   maxTokens,
		temperature: temperature,
		timeout:     timeout,
		http:        httpclient.NewClient(timeout),
	}
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Prompt:      prompt,
		Context:     map[string]interface{}{"channel": "chat"},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var resp generateResponse
	if err := c.http.PostJSON(ctx, c.baseURL+"/api/ai/generate", nil, req, &resp); err != nil {
		if httpclient.IsTimeout(err) {
			return "", apperrors.NewGenerationTimeoutError(c.timeout)
		}
		return "", apperrors.NewGenerationError(err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", apperrors.NewGenerationError(ErrEmptyResponse)
	}
	return text, nil
}
