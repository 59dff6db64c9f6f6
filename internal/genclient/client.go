// Package genclient wraps the Gemini SDKs behind a two-call contract:
// Connect a key to get a Handle, then Generate completions on it.
package genclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rorical/RoriChat/internal/config"
)

// ProbePrompt is the trivial prompt used to confirm a key works.
const ProbePrompt = "Test"

var (
	ErrInvalidCredential = errors.New("invalid credential")
	ErrEmptyCompletion   = errors.New("empty completion")
)

// Client constructs generation handles from an API key.
type Client interface {
	Connect(ctx context.Context, key string) (Handle, error)
	Name() string
}

// Handle is a validated connection to the model. The key itself is not
// retained by callers once a Handle exists.
type Handle interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Close() error
}

// New returns the transport named by gemini.transport.
func New(cfg *config.Config) (Client, error) {
	model := cfg.ModelInfo().APIModel
	switch cfg.Gemini.Transport {
	case config.TransportGenAI:
		return NewGenAIClient(model, cfg.Gemini.BaseURL), nil
	case config.TransportOpenAI:
		return NewOpenAIClient(model, cfg.Gemini.BaseURL), nil
	case config.TransportGenerativeAI:
		return NewGenerativeAIClient(model), nil
	}
	return nil, fmt.Errorf("unknown gemini transport %q", cfg.Gemini.Transport)
}

// Validate connects with key and runs the probe generation. Any failure is
// reported as ErrInvalidCredential and no handle is returned.
func Validate(ctx context.Context, c Client, key string) (Handle, error) {
	h, err := c.Connect(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	if _, err := h.Generate(ctx, ProbePrompt); err != nil {
		h.Close()
		return nil, fmt.Errorf("%w: %w", ErrInvalidCredential, err)
	}
	return h, nil
}
