// internal/common/genai/generator.go
package genai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"lasa-chatbot/internal/common/config"
)

const (
	// DisabledReply is what the static generator answers when generation is off.
	DisabledReply = "죄송합니다. 요청을 이해하지 못했습니다. 다른 방식으로 질문해 주시겠어요?"

	DefaultSystemPrompt = "너는 사용자의 궁금증을 해결해주는 챗봇이야. 사용자의 질문에 대해 정확하고 간결하게 답변해줘."
)

var ErrEmptyResponse = errors.New("generator returned empty text")

// Generator produces a free-text reply for a user message.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Static always answers with the same text.
type Static struct {
	Text string
}

func (s Static) Generate(ctx context.Context, prompt string) (string, error) {
	return s.Text, nil
}

// New builds the generator selected by cfg.Backend.
func New(ctx context.Context, cfg config.GenAIConfig) (Generator, error) {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond

	switch cfg.Backend {
	case config.GenAIBackendHTTP:
		return NewClient(cfg.BaseURL, cfg.MaxTokens, cfg.Temperature, timeout), nil
	case config.GenAIBackendOpenAI:
		return NewOpenAIGenerator(ctx, OpenAIConfig{
			APIKey:       cfg.APIKey,
			BaseURL:      cfg.BaseURL,
			Model:        cfg.Model,
			MaxTokens:    cfg.MaxTokens,
			Temperature:  cfg.Temperature,
			SystemPrompt: cfg.SystemPrompt,
			Timeout:      timeout,
		})
	case config.GenAIBackendDisabled, "":
		return Static{Text: DisabledReply}, nil
	default:
		return nil, fmt.Errorf("unknown genai backend %q", cfg.Backend)
	}
}
