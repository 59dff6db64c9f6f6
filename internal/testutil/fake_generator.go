// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/Rorical/RoriChat/internal/genclient"
)

// ErrRejectedKey is returned by FakeClient for keys it does not accept.
var ErrRejectedKey = errors.New("API key not valid")

// FakeClient is a scripted genclient.Client. Keys in Accept connect and
// probe successfully; replies to other prompts come from Reply, or fail
// with Fail when set. A non-nil Gate blocks every Generate until it
// receives a value or is closed.
type FakeClient struct {
	mu      sync.Mutex
	Accept  map[string]bool
	Reply   func(prompt string) string
	Fail    error
	Gate    chan struct{}
	prompts []string
}

func NewFakeClient(acceptedKeys ...string) *FakeClient {
	accept := make(map[string]bool, len(acceptedKeys))
	for _, k := range acceptedKeys {
		accept[k] = true
	}
	return &FakeClient{Accept: accept}
}

func (c *FakeClient) Name() string { return "fake" }

func (c *FakeClient) Connect(_ context.Context, key string) (genclient.Handle, error) {
	return &fakeHandle{client: c, key: key}, nil
}

// Prompts returns every prompt seen, probes included.
func (c *FakeClient) Prompts() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.prompts))
	copy(out, c.prompts)
	return out
}

// SetFail changes the failure injected into non-probe generations.
func (c *FakeClient) SetFail(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Fail = err
}

type fakeHandle struct {
	client *FakeClient
	key    string
}

func (h *fakeHandle) Generate(ctx context.Context, prompt string) (string, error) {
	c := h.client
	if c.Gate != nil {
		select {
		case <-c.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.prompts = append(c.prompts, prompt)

	if !c.Accept[h.key] {
		return "", ErrRejectedKey
	}
	if prompt == genclient.ProbePrompt {
		return "ok", nil
	}
	if c.Fail != nil {
		return "", c.Fail
	}
	if c.Reply != nil {
		return c.Reply(prompt), nil
	}
	return "echo: " + prompt, nil
}

func (h *fakeHandle) Close() error {
	return nil
}
