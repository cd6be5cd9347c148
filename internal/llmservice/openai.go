package llmservice

import (
	"context"
	"net/http"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"pdf-rag/internal/config"
	"pdf-rag/internal/models"
)

type openAICompleter struct {
	client *goopenai.Client
	model  string
}

// NewOpenAICompleter calls the chat completions endpoint through go-openai.
func NewOpenAICompleter(cfg *config.LLMConfig, httpClient *http.Client) Completer {
	clientCfg := goopenai.DefaultConfig(strings.TrimPrefix(cfg.Key, "Bearer "))
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	return &openAICompleter{
		client: goopenai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}
}

func (c *openAICompleter) Complete(ctx context.Context, messages []models.Message) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model:    c.model,
		Messages: make([]goopenai.ChatCompletionMessage, 0, len(messages)),
		Stream:   false,
	}
	for _, m := range messages {
		req.Messages = append(req.Messages, goopenai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	rsp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(rsp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return rsp.Choices[0].Message.Content, nil
}
