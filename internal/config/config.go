package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Rorical/RoriChat/internal/models"
)

const (
	TransportGenAI        = "genai"
	TransportOpenAI       = "openai"
	TransportGenerativeAI = "generativeai"

	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

type GeminiConfig struct {
	Model     string `mapstructure:"model" json:"model"`
	Transport string `mapstructure:"transport" json:"transport"`
	BaseURL   string `mapstructure:"base_url" json:"base_url,omitempty"`
}

type CredentialsConfig struct {
	Backend  string `mapstructure:"backend" json:"backend"`
	Path     string `mapstructure:"path" json:"path,omitempty"`
	RedisURL string `mapstructure:"redis_url" json:"redis_url,omitempty"`
}

type LogConfig struct {
	Level string `mapstructure:"level" json:"level"`
	File  string `mapstructure:"file" json:"file,omitempty"`
}

type Config struct {
	Model       string            `mapstructure:"model" json:"model"`
	Locale      string            `mapstructure:"locale" json:"locale"`
	Gemini      GeminiConfig      `mapstructure:"gemini" json:"gemini"`
	Credentials CredentialsConfig `mapstructure:"credentials" json:"credentials"`
	Log         LogConfig         `mapstructure:"log" json:"log"`

	dir string
	v   *viper.Viper
}

func LoadConfig() (*Config, error) {
	// .env is optional; RORICHAT_* values in it behave like real env vars
	_ = godotenv.Load()

	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}

	if err := ensureConfigDir(configPath); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	v := newViper(configPath)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := v.WriteConfigAs(configPath); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		if err := os.Chmod(configPath, 0600); err != nil {
			return nil, fmt.Errorf("failed to restrict config permissions: %w", err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.dir = filepath.Dir(configPath)
	cfg.v = v

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func newViper(configPath string) *viper.Viper {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("json")

	v.SetEnvPrefix("RORICHAT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("model", string(models.Gemini))
	v.SetDefault("locale", "vi")
	v.SetDefault("gemini.model", models.DefaultGeminiModel)
	v.SetDefault("gemini.transport", TransportGenAI)
	v.SetDefault("gemini.base_url", "")
	v.SetDefault("credentials.backend", BackendFile)
	v.SetDefault("credentials.path", "")
	v.SetDefault("credentials.redis_url", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	return v
}

func (c *Config) validate() error {
	if _, ok := models.LookupModel(models.ModelID(c.Model)); !ok {
		return fmt.Errorf("unknown model %q", c.Model)
	}

	switch c.Gemini.Transport {
	case TransportGenAI, TransportOpenAI, TransportGenerativeAI:
	default:
		return fmt.Errorf("unknown gemini transport %q", c.Gemini.Transport)
	}

	switch c.Credentials.Backend {
	case BackendFile, BackendSQLite:
	case BackendRedis:
		if c.Credentials.RedisURL == "" {
			return fmt.Errorf("credentials.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown credentials backend %q", c.Credentials.Backend)
	}
	return nil
}

// Dir is the directory holding config.json and the default data files.
func (c *Config) Dir() string {
	return c.dir
}

// ModelInfo resolves the selected registry entry, with the provider model
// name taken from gemini.model.
func (c *Config) ModelInfo() models.ModelInfo {
	info, ok := models.LookupModel(models.ModelID(c.Model))
	if !ok {
		info = models.Registry[0]
	}
	if c.Gemini.Model != "" {
		info.APIModel = c.Gemini.Model
	}
	return info
}

// CredentialsPath returns the store location, defaulting into the config dir.
func (c *Config) CredentialsPath() string {
	if c.Credentials.Path != "" {
		return c.Credentials.Path
	}
	switch c.Credentials.Backend {
	case BackendSQLite:
		return filepath.Join(c.dir, "credentials.db")
	default:
		return filepath.Join(c.dir, "credentials.json")
	}
}

// LogPath returns the log file location, defaulting into the config dir.
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.dir, "rorichat.log")
}

// SetModel changes the selected model; call Save to persist it.
func (c *Config) SetModel(id models.ModelID) error {
	if _, ok := models.LookupModel(id); !ok {
		return fmt.Errorf("unknown model %q", id)
	}
	c.Model = string(id)
	c.v.Set("model", c.Model)
	return nil
}

func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}

	return c.v.WriteConfigAs(configPath)
}

func getConfigPath() (string, error) {
	var configDir string

	// Use RORICHAT_HOME if set, otherwise use user's home directory
	if home := os.Getenv("RORICHAT_HOME"); home != "" {
		configDir = home
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = homeDir
	}

	return filepath.Join(configDir, ".rorichat", "config.json"), nil
}

func ensureConfigDir(configPath string) error {
	configDir := filepath.Dir(configPath)
	return os.MkdirAll(configDir, 0755)
}
