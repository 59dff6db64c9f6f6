package genclient

import (
	"context"
	"fmt"
	"strings"

	legacygenai "github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerativeAIClient uses the older github.com/google/generative-ai-go SDK.
type GenerativeAIClient struct {
	model string
}

func NewGenerativeAIClient(model string) *GenerativeAIClient {
	return &GenerativeAIClient{model: model}
}

func (c *GenerativeAIClient) Name() string {
	return fmt.Sprintf("Gemini (%s, generative-ai-go)", c.model)
}

func (c *GenerativeAIClient) Connect(ctx context.Context, key string) (Handle, error) {
	client, err := legacygenai.NewClient(ctx, option.WithAPIKey(key))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &generativeAIHandle{
		client: client,
		model:  client.GenerativeModel(c.model),
	}, nil
}

type generativeAIHandle struct {
	client *legacygenai.Client
	model  *legacygenai.GenerativeModel
}

func (h *generativeAIHandle) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := h.model.GenerateContent(ctx, legacygenai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	text := extractLegacyText(resp)
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}

func (h *generativeAIHandle) Close() error {
	return h.client.Close()
}

func extractLegacyText(resp *legacygenai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(legacygenai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
