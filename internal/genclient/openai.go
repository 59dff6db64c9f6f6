package genclient

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// GeminiOpenAIBaseURL is Gemini's OpenAI-compatible endpoint.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"

// OpenAIClient talks to Gemini through its OpenAI-compatible endpoint, or
// to any other OpenAI-compatible server when baseURL is set.
type OpenAIClient struct {
	model   string
	baseURL string
}

func NewOpenAIClient(model, baseURL string) *OpenAIClient {
	if baseURL == "" {
		baseURL = GeminiOpenAIBaseURL
	}
	return &OpenAIClient{model: model, baseURL: baseURL}
}

func (c *OpenAIClient) Name() string {
	return fmt.Sprintf("Gemini (%s, openai-compatible)", c.model)
}

func (c *OpenAIClient) Connect(_ context.Context, key string) (Handle, error) {
	clientConfig := openai.DefaultConfig(key)
	clientConfig.BaseURL = c.baseURL
	return &openaiHandle{
		client: openai.NewClientWithConfig(clientConfig),
		model:  c.model,
	}, nil
}

type openaiHandle struct {
	client *openai.Client
	model  string
}

func (h *openaiHandle) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: h.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := h.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return resp.Choices[0].Message.Content, nil
}

func (h *openaiHandle) Close() error {
	return nil
}
