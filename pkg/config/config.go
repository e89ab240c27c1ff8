package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Providers understood by the completion layer.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// LLM configuration. The API key is not configured here: it arrives with each submission.
	LLM LLMConfig `mapstructure:"llm"`

	// MCP upstream used by the JSON-RPC proxy
	MCP MCPConfig `mapstructure:"mcp"`

	// Executor configuration
	Executor ExecutorConfig `mapstructure:"executor"`

	// Prompt assembly
	Prompts PromptsConfig `mapstructure:"prompts"`

	// Generated-query cache
	Cache CacheConfig `mapstructure:"cache"`

	// Usage and error ledger
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// LLMConfig holds LLM configuration
type LLMConfig struct {
	Provider   string        `mapstructure:"provider"` // anthropic, openai
	Model      string        `mapstructure:"model"`
	BaseURL    string        `mapstructure:"base_url"`
	APIVersion string        `mapstructure:"api_version"`
	MaxTokens  int           `mapstructure:"max_tokens"`
	Timeout    time.Duration `mapstructure:"timeout"` // zero means no client-side timeout
}

// MCPConfig holds the TypeDB MCP upstream configuration
type MCPConfig struct {
	UpstreamURL string        `mapstructure:"upstream_url"`
	Breaker     BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig holds circuit breaker settings for the MCP upstream
type BreakerConfig struct {
	MaxFailures uint32        `mapstructure:"max_failures"`
	OpenTimeout time.Duration `mapstructure:"open_timeout"`
}

// ExecutorConfig holds the JSON-RPC proxy endpoint used to run generated queries
type ExecutorConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	// AllowedEndpoints are the extra proxy URLs a client may pick per submission.
	// Endpoint itself is always allowed.
	AllowedEndpoints []string `mapstructure:"allowed_endpoints"`
}

// PromptsConfig controls which context blocks go into the generation prompt
type PromptsConfig struct {
	IncludeGrammar bool `mapstructure:"include_grammar"`
}

// CacheConfig holds generated-query cache configuration
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Path    string        `mapstructure:"path"` // empty keeps the cache in memory
	TTL     time.Duration `mapstructure:"ttl"`
}

// TelemetryConfig holds the DuckDB ledger configuration
type TelemetryConfig struct {
	DuckDBPath string `mapstructure:"duckdb_path"`
}

// Endpoints returns every proxy URL the server-side pipeline may call.
func (e ExecutorConfig) Endpoints() []string {
	return append([]string{e.Endpoint}, e.AllowedEndpoints...)
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Load loads configuration from the given viper instance (file, env and bound flags).
// A nil instance uses the global viper.
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = viper.GetViper()
	}

	setDefaults(v)

	v.SetEnvPrefix("STIXQA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "color")

	// Server defaults
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.mode", "release")

	// LLM defaults
	v.SetDefault("llm.provider", ProviderAnthropic)
	v.SetDefault("llm.model", "claude-sonnet-4-20250514")
	v.SetDefault("llm.base_url", "https://api.anthropic.com")
	v.SetDefault("llm.api_version", "2023-06-01")
	v.SetDefault("llm.max_tokens", 1024)
	v.SetDefault("llm.timeout", 0)

	// MCP defaults
	v.SetDefault("mcp.upstream_url", "http://localhost:8001/mcp")
	v.SetDefault("mcp.breaker.max_failures", 5)
	v.SetDefault("mcp.breaker.open_timeout", 30*time.Second)

	// Executor defaults
	v.SetDefault("executor.endpoint", "http://localhost:3000/mcp")
	v.SetDefault("executor.allowed_endpoints", []string{})

	// Prompt defaults
	v.SetDefault("prompts.include_grammar", true)

	// Cache defaults
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.path", "")
	v.SetDefault("cache.ttl", time.Hour)

	// Telemetry defaults
	v.SetDefault("telemetry.duckdb_path", "")
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	switch c.LLM.Provider {
	case ProviderAnthropic, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}

	if c.LLM.Model == "" {
		return fmt.Errorf("llm model is required")
	}

	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}

	if c.LLM.BaseURL != "" {
		if err := validateHTTPURL(c.LLM.BaseURL); err != nil {
			return fmt.Errorf("llm base_url: %w", err)
		}
	}

	if err := validateHTTPURL(c.MCP.UpstreamURL); err != nil {
		return fmt.Errorf("mcp upstream_url: %w", err)
	}

	if err := validateHTTPURL(c.Executor.Endpoint); err != nil {
		return fmt.Errorf("executor endpoint: %w", err)
	}

	for _, endpoint := range c.Executor.AllowedEndpoints {
		if err := validateHTTPURL(endpoint); err != nil {
			return fmt.Errorf("executor allowed_endpoints %q: %w", endpoint, err)
		}
	}

	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache ttl must be positive when the cache is enabled")
	}

	return nil
}

func validateHTTPURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("URL cannot be empty")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("URL must use http:// or https:// scheme")
	}
	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}
	return nil
}
