package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/newthinker/stockcast/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Collector  CollectorConfig  `mapstructure:"collector"`
	Forecast   ForecastConfig   `mapstructure:"forecast"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	LLM        LLMConfig        `mapstructure:"llm"`
	Commentary CommentaryConfig `mapstructure:"commentary"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port" validate:"min=1,max=65535"`
	Mode         string        `mapstructure:"mode" validate:"omitempty,oneof=debug release"`
	TemplatesDir string        `mapstructure:"templates_dir"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LogConfig struct {
	Level    string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Encoding string `mapstructure:"encoding" validate:"omitempty,oneof=json console"`
}

// CollectorConfig selects and configures the price provider.
type CollectorConfig struct {
	Provider string        `mapstructure:"provider" validate:"oneof=yahoo polygon csv eastmoney"`
	Timeout  time.Duration `mapstructure:"timeout"`
	APIKey   string        `mapstructure:"api_key"`
	BaseURL  string        `mapstructure:"base_url" validate:"omitempty,url"`
	CSVDir   string        `mapstructure:"csv_dir"`
}

// ForecastConfig holds the dashboard form defaults.
type ForecastConfig struct {
	DefaultTicker  string `mapstructure:"default_ticker" validate:"required"`
	DefaultStart   string `mapstructure:"default_start" validate:"required,datetime=2006-01-02"`
	DefaultHorizon int    `mapstructure:"default_horizon" validate:"min=5,max=60"`
}

// Start parses DefaultStart.
func (f ForecastConfig) Start() (time.Time, error) {
	return time.Parse(core.DateLayout, f.DefaultStart)
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider" validate:"omitempty,oneof=claude openai ollama"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// CommentaryConfig controls the optional LLM note attached to completed runs.
type CommentaryConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

var validate = validator.New()

// Load reads configuration from file on top of Defaults
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Defaults())
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads path, or returns Defaults when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.mode", d.Server.Mode)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.encoding", d.Log.Encoding)
	v.SetDefault("collector.provider", d.Collector.Provider)
	v.SetDefault("collector.timeout", d.Collector.Timeout)
	v.SetDefault("forecast.default_ticker", d.Forecast.DefaultTicker)
	v.SetDefault("forecast.default_start", d.Forecast.DefaultStart)
	v.SetDefault("forecast.default_horizon", d.Forecast.DefaultHorizon)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)
	v.SetDefault("commentary.enabled", d.Commentary.Enabled)
	v.SetDefault("commentary.max_tokens", d.Commentary.MaxTokens)
	v.SetDefault("commentary.timeout", d.Commentary.Timeout)
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			Mode:         "release",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Log: LogConfig{
			Level:    "info",
			Encoding: "json",
		},
		Collector: CollectorConfig{
			Provider: "yahoo",
			Timeout:  10 * time.Second,
		},
		Forecast: ForecastConfig{
			DefaultTicker:  core.DefaultTicker,
			DefaultStart:   core.DefaultStart.Format(core.DateLayout),
			DefaultHorizon: core.DefaultHorizon,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		Commentary: CommentaryConfig{
			Enabled:   false,
			MaxTokens: 300,
			Timeout:   30 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("%s: failed %q validation (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
		}
		return core.WrapError(core.ErrConfigInvalid, err)
	}

	// Provider-specific requirements
	switch c.Collector.Provider {
	case "polygon":
		if c.Collector.APIKey == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("collector api_key required when provider is polygon"))
		}
	case "csv":
		if c.Collector.CSVDir == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("collector csv_dir required when provider is csv"))
		}
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			if c.LLM.Ollama.Endpoint == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("ollama endpoint required when provider is ollama"))
			}
		}
	}

	if c.Commentary.Enabled && c.LLM.Provider == "" {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("llm provider required when commentary is enabled"))
	}

	return nil
}
