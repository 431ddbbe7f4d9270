// internal/common/rasa/client.go
package rasa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"
	"lasa-chatbot/internal/common/httpclient"
)

// UnknownIntent is reported when the server omits intent.name.
const UnknownIntent = "unknown"

// Entity is one extracted entity from /model/parse.
type Entity struct {
	Entity string
	Value  string
}

// ParseResult is the subset of the Rasa parse response the analyzers use.
type ParseResult struct {
	Intent     string
	Confidence float64
	Entities   []Entity
}

// Parser classifies a message with a remote NLU model.
type Parser interface {
	Parse(ctx context.Context, text, senderID string) (*ParseResult, error)
}

type parseRequest struct {
	Text   string `json:"text"`
	Sender string `json:"sender,omitempty"`
}

type parseResponse struct {
	Intent *struct {
		Name       *string  `json:"name"`
		Confidence *float64 `json:"confidence"`
	} `json:"intent"`
	Entities []struct {
		Entity string      `json:"entity"`
		Value  interface{} `json:"value"`
	} `json:"entities"`
}

// Client calls a Rasa-compatible server. It never retries.
type Client struct {
	baseURL string
	http    *httpclient.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpclient.NewClient(timeout),
	}
}

// Parse posts text to /model/parse. Errors are *errors.StandardError with an
// NLU_* code.
func (c *Client) Parse(ctx context.Context, text, senderID string) (*ParseResult, error) {
	var resp parseResponse
	err := c.http.PostJSON(ctx, c.baseURL+"/model/parse", nil, parseRequest{Text: text, Sender: senderID}, &resp)
	if err != nil {
		return nil, classify(err)
	}

	result := &ParseResult{Intent: UnknownIntent}
	if resp.Intent != nil {
		if resp.Intent.Name != nil {
			result.Intent = *resp.Intent.Name
		}
		if resp.Intent.Confidence != nil {
			result.Confidence = *resp.Intent.Confidence
		}
	}

	for _, e := range resp.Entities {
		if e.Entity == "" {
			continue
		}
		result.Entities = append(result.Entities, Entity{Entity: e.Entity, Value: valueString(e.Value)})
	}

	return result, nil
}

func classify(err error) error {
	switch {
	case httpclient.IsTimeout(err):
		return apperrors.NewNLUTimeoutError(err)
	case errors.Is(err, httpclient.ErrDecode):
		return apperrors.NewNLUMalformedResponseError(err)
	default:
		return apperrors.NewNLUUnavailableError(err)
	}
}

func valueString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
