package genclient

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GenAIClient talks to the Gemini API through google.golang.org/genai.
type GenAIClient struct {
	model   string
	baseURL string
}

func NewGenAIClient(model, baseURL string) *GenAIClient {
	return &GenAIClient{model: model, baseURL: baseURL}
}

func (c *GenAIClient) Name() string {
	return fmt.Sprintf("Gemini (%s)", c.model)
}

func (c *GenAIClient) Connect(ctx context.Context, key string) (Handle, error) {
	cc := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if c.baseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: c.baseURL}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &genaiHandle{client: client, model: c.model}, nil
}

type genaiHandle struct {
	client *genai.Client
	model  string
}

func (h *genaiHandle) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := h.client.Models.GenerateContent(ctx, h.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini API error: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

// genai.Client holds no resources that need releasing.
func (h *genaiHandle) Close() error {
	return nil
}
