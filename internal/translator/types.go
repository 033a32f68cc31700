package translator

import (
	"context"
	"time"

	"github.com/valpere/htmlbr/internal"
)

// ServiceConfig configures the remote generateContent endpoint.
type ServiceConfig struct {
	BaseURL         string        `mapstructure:"base_url" json:"base_url"`
	Model           string        `mapstructure:"model" json:"model"`
	Temperature     float64       `mapstructure:"temperature" json:"temperature"`
	MaxOutputTokens int           `mapstructure:"max_output_tokens" json:"max_output_tokens"`
	Timeout         time.Duration `mapstructure:"timeout" json:"timeout"`
	Clean           bool          `mapstructure:"clean" json:"clean"`
}

const (
	DefaultBaseURL         = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel           = "gemini-2.0-flash"
	DefaultTemperature     = 0.2
	DefaultMaxOutputTokens = 8192
	DefaultTimeout         = 120 * time.Second
)

func (c ServiceConfig) withDefaults() ServiceConfig {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	if c.MaxOutputTokens <= 0 {
		c.MaxOutputTokens = DefaultMaxOutputTokens
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Translator turns one source string into an outcome. Implementations never
// return Skipped; that decision belongs to the caller.
type Translator interface {
	Name() string
	Translate(ctx context.Context, apiKey, sourceText string) internal.Outcome
}

// RetryNotifier is told about every rate-limit wait before it happens.
type RetryNotifier func(attempt, maxAttempts int, delay time.Duration)
