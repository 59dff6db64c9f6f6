// Package credential persists the single Gemini API key slot.
package credential

import (
	"context"
	"fmt"

	"github.com/Rorical/RoriChat/internal/config"
)

// KeyName is the fixed slot the API key is stored under.
const KeyName = "geminiApiKey"

// Store is a durable string key-value store. Get reports ok=false when the
// name has never been set or was cleared.
type Store interface {
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	Set(ctx context.Context, name, value string) error
	Close() error
}

// Open returns the backend selected by credentials.backend.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Credentials.Backend {
	case config.BackendFile:
		return NewFileStore(cfg.CredentialsPath()), nil
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.CredentialsPath())
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.Credentials.RedisURL)
	}
	return nil, fmt.Errorf("unknown credentials backend %q", cfg.Credentials.Backend)
}
