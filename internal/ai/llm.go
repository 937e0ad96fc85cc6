// Package ai asks an OpenAI-compatible model to review listings and answer
// owner questions.
package ai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// ErrDisabled is returned by the LLM used when no API key is configured.
var ErrDisabled = errors.New("ai: no model configured")

// Message is one chat turn.
type Message struct {
	Role    string
	Content string
}

// Options tune a completion.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// LLM completes a chat conversation.
type LLM interface {
	Complete(ctx context.Context, messages []Message, opts Options) (string, error)
}

// OpenAIClient talks to any OpenAI-compatible endpoint, DeepSeek included.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIClient(apiKey, baseURL, model string) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIClient{client: openai.NewClientWithConfig(cfg), model: model}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []Message, opts Options) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(messages)),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// Disabled is the LLM used when AI is not configured.
type Disabled struct{}

func (Disabled) Complete(context.Context, []Message, Options) (string, error) {
	return "", ErrDisabled
}
