// Package llm wraps an OpenAI-compatible completion endpoint behind the
// single Completer capability the services depend on.
package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"profmailgen/app/apperr"
	"profmailgen/app/config"

	"github.com/sashabaranov/go-openai"
)

const requestTimeout = 30 * time.Second

// Completer is the only view of the generation capability the rest of the
// system sees: prompt in, generated text out, fallible.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Client struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
}

var _ Completer = (*Client)(nil)

func NewClient(cfg config.ModelConfig) *Client {
	clientConfig := openai.DefaultConfig(cfg.Token)

	clientConfig.BaseURL = cfg.BaseURL
	clientConfig.HTTPClient = &http.Client{
		Timeout: requestTimeout,
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
	}
}

// Complete sends the prompt as a single user message and returns the trimmed
// completion text. Any provider-side failure comes back as GenerationFailed.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	aiResponse, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: c.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			MaxCompletionTokens: c.maxTokens,
			Temperature:         c.temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", apperr.ErrGenerationFailed, err)
	}

	if len(aiResponse.Choices) == 0 {
		return "", fmt.Errorf("%w: no chat completion found", apperr.ErrGenerationFailed)
	}

	return strings.TrimSpace(aiResponse.Choices[0].Message.Content), nil
}
