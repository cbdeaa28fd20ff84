package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderEcho   = "echo"

	ModeServer    = "server"
	ModeStateless = "stateless"

	DefaultAPIKeyEnv = "GENAI_API_KEY"
	DefaultBaseURL   = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultModel     = "gemini-1.5-pro"
)

type Config struct {
	Server struct {
		Port               int      `mapstructure:"port"`
		Mode               string   `mapstructure:"mode"`
		CORSOrigins        []string `mapstructure:"cors_origins"`
		ShutdownTimeoutSec int      `mapstructure:"shutdown_timeout_sec"`
	} `mapstructure:"server"`
	GenAI struct {
		Provider          string `mapstructure:"provider"`
		BaseURL           string `mapstructure:"base_url"`
		Model             string `mapstructure:"model"`
		APIKeyEnv         string `mapstructure:"api_key_env"`
		APIKey            string `mapstructure:"-"`
		RequestTimeoutSec int    `mapstructure:"request_timeout_sec"`
		MaxRetries        int    `mapstructure:"max_retries"`
		RetryBackoffMs    int    `mapstructure:"retry_backoff_ms"`
	} `mapstructure:"genai"`
	Conversation struct {
		Mode            string `mapstructure:"mode"`
		MaxContextTurns int    `mapstructure:"max_context_turns"`
		MaxSessions     int    `mapstructure:"max_sessions"`
		SessionTTLMin   int    `mapstructure:"session_ttl_min"`
	} `mapstructure:"conversation"`
	Log     LogConfig `mapstructure:"log"`
	Metrics struct {
		Enabled bool   `mapstructure:"enabled"`
		Path    string `mapstructure:"path"`
	} `mapstructure:"metrics"`
}

// LogConfig controls the process logger. An empty File logs to stderr.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.GenAI.RequestTimeoutSec) * time.Second
}

func (c Config) RetryBackoff() time.Duration {
	return time.Duration(c.GenAI.RetryBackoffMs) * time.Millisecond
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Conversation.SessionTTLMin) * time.Minute
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.Server.ShutdownTimeoutSec) * time.Second
}

// Load reads the YAML file at path (or config.yaml from the working
// directory when path is empty), applies TUTOR_* environment overrides and
// resolves the provider credential.
func Load(path string) (Config, error) {
	var cfg Config
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
	}
	v.SetEnvPrefix("TUTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return cfg, err
	}

	envName := cfg.GenAI.APIKeyEnv
	if envName == "" {
		envName = DefaultAPIKeyEnv
	}
	cfg.GenAI.APIKey = os.Getenv(envName)
	if cfg.GenAI.APIKey == "" && cfg.GenAI.Provider != ProviderEcho {
		return cfg, fmt.Errorf("missing provider API key in env %s", envName)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.shutdown_timeout_sec", 10)

	v.SetDefault("genai.provider", ProviderOpenAI)
	v.SetDefault("genai.base_url", DefaultBaseURL)
	v.SetDefault("genai.model", DefaultModel)
	v.SetDefault("genai.api_key_env", DefaultAPIKeyEnv)
	v.SetDefault("genai.request_timeout_sec", 120)
	v.SetDefault("genai.max_retries", 5)
	v.SetDefault("genai.retry_backoff_ms", 2000)

	v.SetDefault("conversation.mode", ModeServer)
	v.SetDefault("conversation.max_context_turns", 20)
	v.SetDefault("conversation.max_sessions", 1024)
	v.SetDefault("conversation.session_ttl_min", 60)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func validate(cfg *Config) error {
	switch cfg.GenAI.Provider {
	case ProviderOpenAI, ProviderEcho:
	default:
		return fmt.Errorf("unknown genai.provider %q", cfg.GenAI.Provider)
	}
	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown server.mode %q", cfg.Server.Mode)
	}
	switch cfg.Conversation.Mode {
	case ModeServer, ModeStateless:
	default:
		return fmt.Errorf("unknown conversation.mode %q", cfg.Conversation.Mode)
	}
	if cfg.GenAI.MaxRetries <= 0 {
		return fmt.Errorf("genai.max_retries must be positive, got %d", cfg.GenAI.MaxRetries)
	}
	if cfg.GenAI.RetryBackoffMs < 0 {
		return fmt.Errorf("genai.retry_backoff_ms must not be negative, got %d", cfg.GenAI.RetryBackoffMs)
	}
	if cfg.Conversation.MaxSessions <= 0 {
		cfg.Conversation.MaxSessions = 1
	}
	return nil
}
