// Package config loads settings from an optional YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/valpere/htmlbr/internal"
	"github.com/valpere/htmlbr/internal/prompt"
	"github.com/valpere/htmlbr/internal/translator"
)

// EnvPrefix prefixes every environment override, e.g. HTMLBR_GEMINI_MODEL.
const EnvPrefix = "HTMLBR"

type Config struct {
	Gemini GeminiConfig           `mapstructure:"gemini"`
	Retry  translator.RetryPolicy `mapstructure:"retry"`
	Prompt PromptConfig           `mapstructure:"prompt"`
	Output OutputConfig           `mapstructure:"output"`
	Store  StoreConfig            `mapstructure:"store"`
}

type GeminiConfig struct {
	translator.ServiceConfig `mapstructure:",squash"`
	APIKey                   string `mapstructure:"api_key"`
}

type PromptConfig struct {
	DNTTerms []string `mapstructure:"dnt_terms"`
}

type OutputConfig struct {
	Clean       bool `mapstructure:"clean"`
	CheckMarkup bool `mapstructure:"check_markup"`
}

type StoreConfig struct {
	Path    string `mapstructure:"path"`
	Enabled bool   `mapstructure:"enabled"`
}

// Load reads configPath when given. Otherwise ./htmlbr.yaml and then
// $HOME/.htmlbr.yaml are tried; having neither is fine.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// GEMINI_API_KEY is the variable most users already have set.
	if err := v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, err
	}

	if configPath == "" {
		configPath = findConfig()
	}
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini.base_url", translator.DefaultBaseURL)
	v.SetDefault("gemini.model", translator.DefaultModel)
	v.SetDefault("gemini.temperature", translator.DefaultTemperature)
	v.SetDefault("gemini.max_output_tokens", translator.DefaultMaxOutputTokens)
	v.SetDefault("gemini.timeout", translator.DefaultTimeout)
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("retry.max_attempts", translator.DefaultMaxAttempts)
	v.SetDefault("retry.initial_delay", translator.DefaultInitialDelay)
	v.SetDefault("prompt.dnt_terms", prompt.DefaultDNTTerms)
	v.SetDefault("output.clean", false)
	v.SetDefault("output.check_markup", false)
	v.SetDefault("store.path", filepath.Join("data", "htmlbr.db"))
	v.SetDefault("store.enabled", true)
}

func findConfig() string {
	candidates := []string{"htmlbr.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".htmlbr.yaml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// Credential returns the API key or ErrCredentialMissing.
func (c *Config) Credential() (string, error) {
	key := strings.TrimSpace(c.Gemini.APIKey)
	if key == "" {
		return "", fmt.Errorf("%w: set GEMINI_API_KEY or gemini.api_key", internal.ErrCredentialMissing)
	}
	return key, nil
}

// Service is the client configuration with output cleanup applied.
func (c *Config) Service() translator.ServiceConfig {
	sc := c.Gemini.ServiceConfig
	sc.Clean = c.Output.Clean
	return sc
}

// Validate rejects values the client would otherwise silently replace.
func (c *Config) Validate() error {
	var errs []error
	if c.Gemini.MaxOutputTokens < 0 {
		errs = append(errs, fmt.Errorf("gemini.max_output_tokens must not be negative, got %d", c.Gemini.MaxOutputTokens))
	}
	if c.Gemini.Temperature <= 0 || c.Gemini.Temperature > 2 {
		errs = append(errs, fmt.Errorf("gemini.temperature must be within (0, 2], got %v", c.Gemini.Temperature))
	}
	if c.Retry.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("retry.max_attempts must not be negative, got %d", c.Retry.MaxAttempts))
	}
	if c.Store.Enabled && c.Store.Path == "" {
		errs = append(errs, errors.New("store.path is empty while store.enabled is true"))
	}
	return errors.Join(errs...)
}
