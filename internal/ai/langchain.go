package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// LangchainCompleter implements Completer using the OpenAI-compatible API.
type LangchainCompleter struct {
	client llms.Model
}

var _ Completer = (*LangchainCompleter)(nil)

// NewLangchainCompleter creates a new OpenAI-compatible completer.
func NewLangchainCompleter(apiKey, baseURL, model string) (*LangchainCompleter, error) {
	client, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return &LangchainCompleter{client: client}, nil
}

// Complete sends the system and user messages and returns the first choice.
func (c *LangchainCompleter) Complete(ctx context.Context, req Request) (string, error) {
	msgs := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, req.UserText),
	}

	resp, err := c.client.GenerateContent(
		ctx,
		msgs,
		llms.WithModel(req.Model),
		llms.WithMaxTokens(req.MaxTokens),
		llms.WithTemperature(req.Temperature),
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Content, nil
}
