package llmservice

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"qa-datagen/internal/config"
)

// Invoker is the one capability the generator needs from a model client.
type Invoker interface {
	Invoke(ctx context.Context, prompt string) (string, error)
}

// Client sends prompts to any OpenAI-compatible chat endpoint (Groq,
// OpenRouter, OpenAI). Model name, key and base URL come from config.
type Client struct {
	cfg *config.LLMConfig
}

func NewClient(cfg *config.LLMConfig) *Client {
	return &Client{cfg: cfg}
}

// call llm
func (c *Client) Invoke(ctx context.Context, prompt string) (string, error) {
	log.Debug().Str("model", c.cfg.Model).Int("prompt_len", len(prompt)).Msg("Invoking model")

	llm, err := openai.New(
		openai.WithBaseURL(c.cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(c.cfg.Key, "Bearer ")),
		openai.WithModel(c.cfg.Model),
	)
	if err != nil {
		return "", err
	}

	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	res, err := llm.GenerateContent(ctx, messages)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", errors.New("empty response from model")
	}
	return res.Choices[0].Content, nil
}
