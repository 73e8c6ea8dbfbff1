package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment names recognised by the server.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Output formats for the model's assessment.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// ErrMissingAPIKey is returned by Validate when no model provider credential is configured.
var ErrMissingAPIKey = errors.New("ANTHROPIC_API_KEY environment variable is not set")

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	Environment string `mapstructure:"environment"`
}

// CORSConfig keeps the raw comma-separated origin list as it appears in CORS_ORIGINS.
type CORSConfig struct {
	AllowedOrigins string `mapstructure:"allowed_origins"`
}

// AnthropicConfig defines the model provider settings.
type AnthropicConfig struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`
	MaxTokens int    `mapstructure:"max_tokens"`
	// Zero leaves the transport default in place.
	Timeout time.Duration `mapstructure:"timeout"`
}

type AnalysisConfig struct {
	OutputFormat string `mapstructure:"output_format"`
}

// IsProduction reports whether stricter production behaviour is enabled.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Server.Environment), EnvProduction)
}

// Origins splits the configured CORS origins, dropping blanks.
func (c CORSConfig) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// Validate checks settings the server cannot start without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Anthropic.APIKey) == "" {
		return ErrMissingAPIKey
	}
	switch c.Analysis.OutputFormat {
	case OutputText, OutputJSON:
	default:
		return fmt.Errorf("invalid analysis.output_format %q: must be %q or %q", c.Analysis.OutputFormat, OutputText, OutputJSON)
	}
	if c.Anthropic.MaxTokens <= 0 {
		return fmt.Errorf("invalid anthropic.max_tokens %d: must be positive", c.Anthropic.MaxTokens)
	}
	return nil
}

// LoadConfig reads configuration from a .env file, an optional config.yaml in path,
// and environment variables (which win).
func LoadConfig(path string) (config Config, err error) {
	if err := godotenv.Load(); err != nil {
		log.Println("INFO: No .env file found, using system environment variables")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Names the deployment already uses.
	_ = v.BindEnv("anthropic.api_key", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("cors.allowed_origins", "CORS_ORIGINS")
	_ = v.BindEnv("server.environment", "ENVIRONMENT")

	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.environment", EnvDevelopment)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://localhost:5174")
	v.SetDefault("anthropic.api_key", "")
	v.SetDefault("anthropic.base_url", "https://api.anthropic.com")
	v.SetDefault("anthropic.model", "claude-3-5-haiku-20241022")
	v.SetDefault("anthropic.max_tokens", 450)
	v.SetDefault("anthropic.timeout", "0s")
	v.SetDefault("analysis.output_format", OutputText)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		err = nil
	} else if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	config.Analysis.OutputFormat = strings.ToLower(strings.TrimSpace(config.Analysis.OutputFormat))

	return config, nil
}
