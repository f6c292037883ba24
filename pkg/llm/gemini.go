package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// GeminiHandler talks to Google's Gemini models through their
// OpenAI-compatible endpoint.
type GeminiHandler struct {
	client    *openai.Client
	model     string
	systemMsg string
	logger    *logrus.Logger
}

// NewGeminiHandler creates a handler. baseURL should point at the
// OpenAI-compatible API root, e.g.
// https://generativelanguage.googleapis.com/v1beta/openai
func NewGeminiHandler(apiKey, baseURL, model, systemPrompt string, logger *logrus.Logger) *GeminiHandler {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &GeminiHandler{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		systemMsg: systemPrompt,
		logger:    logger,
	}
}

// Query sends the conversation and returns the model reply.
func (h *GeminiHandler) Query(ctx context.Context, history []Message, text string) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	if h.systemMsg != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: h.systemMsg,
		})
	}
	for _, m := range history {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: text})

	resp, err := h.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    h.model,
		Messages: msgs,
	})
	if err != nil {
		h.logger.WithError(err).Error("chat completion failed")
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Message.Content, nil
}
