package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// DefaultChatKitAPIBase is used when CHATKIT_API_BASE is not set.
const DefaultChatKitAPIBase = "https://api.openai.com"

// Config aggregates every configuration section of the service.
type Config struct {
	Server  ServerConfig
	Auth    AuthConfig
	ChatKit ChatKitConfig
	App     AppConfig
	Log     LogConfig
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

// AuthConfig describes the hosted authentication provider.
type AuthConfig struct {
	URL     string
	AnonKey string
	// JWTSecret enables local HS256 verification of access tokens. When empty,
	// tokens are validated against the provider instead.
	JWTSecret string
	Timeout   time.Duration
}

// ChatKitConfig describes the upstream chat-session API.
type ChatKitConfig struct {
	APIKey     string
	APIBase    string
	WorkflowID string
	Timeout    time.Duration
}

// AppConfig carries build/runtime flavour.
type AppConfig struct {
	Env string
}

// Production reports whether the service runs with production behaviour.
func (c AppConfig) Production() bool {
	return c.Env == "production"
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string
	File  string
}

// rawEnv holds environment values before normalization.
type rawEnv struct {
	Port string `env:"PORT" envDefault:"8080"`

	AppEnv  string `env:"APP_ENV"`
	NodeEnv string `env:"NODE_ENV"`

	SupabaseURL           string `env:"SUPABASE_URL"`
	PublicSupabaseURL     string `env:"NEXT_PUBLIC_SUPABASE_URL"`
	SupabaseAnonKey       string `env:"SUPABASE_ANON_KEY"`
	PublicSupabaseAnonKey string `env:"NEXT_PUBLIC_SUPABASE_ANON_KEY"`
	SupabaseJWTSecret     string `env:"SUPABASE_JWT_SECRET"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	ChatKitAPIBase   string `env:"CHATKIT_API_BASE"`
	WorkflowID       string `env:"CHATKIT_WORKFLOW_ID"`
	PublicWorkflowID string `env:"NEXT_PUBLIC_CHATKIT_WORKFLOW_ID"`

	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"15s"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return build(raw)
}

// LoadFromMap reads configuration from the provided variables only.
func LoadFromMap(vars map[string]string) (*Config, error) {
	var raw rawEnv
	if err := env.ParseWithOptions(&raw, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return build(raw)
}

func build(raw rawEnv) (*Config, error) {
	server, err := loadServerConfig(raw.Port)
	if err != nil {
		return nil, err
	}

	auth := AuthConfig{
		URL:       strings.TrimRight(firstNonEmpty(raw.SupabaseURL, raw.PublicSupabaseURL), "/"),
		AnonKey:   firstNonEmpty(raw.SupabaseAnonKey, raw.PublicSupabaseAnonKey),
		JWTSecret: strings.TrimSpace(raw.SupabaseJWTSecret),
		Timeout:   raw.HTTPClientTimeout,
	}
	if auth.URL == "" {
		return nil, fmt.Errorf("SUPABASE_URL is required")
	}
	if auth.AnonKey == "" {
		return nil, fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if raw.HTTPClientTimeout <= 0 {
		return nil, fmt.Errorf("invalid HTTP_CLIENT_TIMEOUT value %q", raw.HTTPClientTimeout)
	}

	apiBase := strings.TrimRight(strings.TrimSpace(raw.ChatKitAPIBase), "/")
	if apiBase == "" {
		apiBase = DefaultChatKitAPIBase
	}

	// A missing API key is reported per request by the session endpoint.
	chatKit := ChatKitConfig{
		APIKey:     strings.TrimSpace(raw.OpenAIAPIKey),
		APIBase:    apiBase,
		WorkflowID: firstNonEmpty(raw.WorkflowID, raw.PublicWorkflowID),
		Timeout:    raw.HTTPClientTimeout,
	}

	return &Config{
		Server:  server,
		Auth:    auth,
		ChatKit: chatKit,
		App:     AppConfig{Env: strings.ToLower(firstNonEmpty(raw.AppEnv, raw.NodeEnv, "development"))},
		Log: LogConfig{
			Level: strings.ToLower(strings.TrimSpace(raw.LogLevel)),
			File:  strings.TrimSpace(raw.LogFile),
		},
	}, nil
}

// loadServerConfig resolves the listen address from PORT.
func loadServerConfig(rawPort string) (ServerConfig, error) {
	port := strings.TrimSpace(rawPort)
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// accepts ":8080" or "127.0.0.1:8080"
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
