// internal/common/genai/openai.go
package genai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "lasa-chatbot/internal/common/errors"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// chatModel is the part of an eino chat model the generator needs.
type chatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error)
}

type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	Model        string
	MaxTokens    int
	Temperature  float64
	SystemPrompt string
	Timeout      time.Duration
}

// OpenAIGenerator answers through an OpenAI-compatible chat completion API.
type OpenAIGenerator struct {
	model        chatModel
	systemPrompt string
	timeout      time.Duration
}

func NewOpenAIGenerator(ctx context.Context, cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	maxTokens := cfg.MaxTokens
	temperature := float32(cfg.Temperature)

	modelConfig := &openai.ChatModelConfig{
		APIKey:      cfg.APIKey,
		BaseURL:     cfg.BaseURL,
		Model:       cfg.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
		Timeout:     cfg.Timeout,
	}

	chat, err := openai.NewChatModel(ctx, modelConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating chat model: %w", err)
	}

	return newOpenAIGenerator(chat, cfg.SystemPrompt, cfg.Timeout), nil
}

func newOpenAIGenerator(m chatModel, systemPrompt string, timeout time.Duration) *OpenAIGenerator {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &OpenAIGenerator{model: m, systemPrompt: systemPrompt, timeout: timeout}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(g.systemPrompt),
		schema.UserMessage(prompt),
	}

	out, err := g.model.Generate(ctx, messages)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", apperrors.NewGenerationTimeoutError(g.timeout)
		}
		return "", apperrors.NewGenerationError(err)
	}
	if out == nil || strings.TrimSpace(out.Content) == "" {
		return "", apperrors.NewGenerationError(ErrEmptyResponse)
	}
	return strings.TrimSpace(out.Content), nil
}
