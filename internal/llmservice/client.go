package llmservice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"pdf-rag/internal/config"
	"pdf-rag/internal/models"
)

var ErrEmptyResponse = errors.New("no completion returned")

// Completer sends a conversation to a chat model and returns the first choice.
type Completer interface {
	Complete(ctx context.Context, messages []models.Message) (string, error)
}

// NewCompleter picks the client named by cfg.Provider. httpClient may be nil.
func NewCompleter(cfg *config.LLMConfig, httpClient *http.Client) (Completer, error) {
	log.Debug().Interface("config", map[string]string{
		"provider":        cfg.Provider,
		"base_url":        cfg.BaseURL,
		"inference_model": cfg.Model,
	}).Msg("Creating completion client")

	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAICompleter(cfg, httpClient), nil
	case config.ProviderLangchain, "":
		return NewLangchainCompleter(cfg, httpClient)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

type langchainCompleter struct {
	llm llms.Model
}

func NewLangchainCompleter(cfg *config.LLMConfig, httpClient *http.Client) (Completer, error) {
	opts := []openai.Option{
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if httpClient != nil {
		opts = append(opts, openai.WithHTTPClient(httpClient))
	}

	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}
	return &langchainCompleter{llm: llm}, nil
}

func (c *langchainCompleter) Complete(ctx context.Context, messages []models.Message) (string, error) {
	msgContent := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		msgContent = append(msgContent, llms.MessageContent{
			Role:  chatMessageType(m.Role),
			Parts: []llms.ContentPart{llms.TextContent{Text: m.Content}},
		})
	}

	res, err := c.llm.GenerateContent(ctx, msgContent)
	if err != nil {
		return "", err
	}
	if len(res.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return res.Choices[0].Content, nil
}

func chatMessageType(role string) llms.ChatMessageType {
	switch role {
	case models.RoleSystem:
		return llms.ChatMessageTypeSystem
	case "assistant":
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
