package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/valpere/htmlbr/internal"
	"github.com/valpere/htmlbr/internal/translator"
)

// isolate runs the test from an empty directory with an empty home and no
// credential in the environment.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HTMLBR_GEMINI_API_KEY", "")
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gemini.BaseURL != translator.DefaultBaseURL {
		t.Errorf("unexpected base URL %q", cfg.Gemini.BaseURL)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash" {
		t.Errorf("unexpected model %q", cfg.Gemini.Model)
	}
	if cfg.Gemini.Temperature != 0.2 {
		t.Errorf("expected temperature 0.2, got %v", cfg.Gemini.Temperature)
	}
	if cfg.Gemini.Timeout != 120*time.Second {
		t.Errorf("expected 120s timeout, got %v", cfg.Gemini.Timeout)
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.InitialDelay != time.Second {
		t.Errorf("unexpected retry policy %+v", cfg.Retry)
	}
	if len(cfg.Prompt.DNTTerms) != 3 {
		t.Errorf("expected 3 default DNT terms, got %v", cfg.Prompt.DNTTerms)
	}
	if cfg.Output.Clean {
		t.Error("expected clean to be off by default")
	}
	if cfg.Output.CheckMarkup {
		t.Error("expected markup check to be off by default")
	}
	if !cfg.Store.Enabled || cfg.Store.Path == "" {
		t.Errorf("unexpected store config %+v", cfg.Store)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoad_File(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	content := `
gemini:
  model: gemini-1.5-pro
  max_output_tokens: 4096
  timeout: 30s
  api_key: from-file
retry:
  initial_delay: 2s
prompt:
  dnt_terms: [Acme]
output:
  clean: true
store:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Gemini.Model != "gemini-1.5-pro" || cfg.Gemini.MaxOutputTokens != 4096 {
		t.Errorf("unexpected gemini config %+v", cfg.Gemini.ServiceConfig)
	}
	if cfg.Gemini.Timeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.Gemini.Timeout)
	}
	if cfg.Retry.InitialDelay != 2*time.Second || cfg.Retry.MaxAttempts != 5 {
		t.Errorf("unexpected retry policy %+v", cfg.Retry)
	}
	if len(cfg.Prompt.DNTTerms) != 1 || cfg.Prompt.DNTTerms[0] != "Acme" {
		t.Errorf("unexpected DNT terms %v", cfg.Prompt.DNTTerms)
	}
	if !cfg.Service().Clean {
		t.Error("expected output.clean to reach the service config")
	}
	if cfg.Store.Enabled {
		t.Error("expected store disabled")
	}

	key, err := cfg.Credential()
	if err != nil || key != "from-file" {
		t.Errorf("expected credential from file, got %q, %v", key, err)
	}
}

func TestLoad_DiscoversLocalFile(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "htmlbr.yaml"), []byte("gemini:\n  model: local-model\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gemini.Model != "local-model" {
		t.Errorf("expected model from ./htmlbr.yaml, got %q", cfg.Gemini.Model)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)

	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoad_Env(t *testing.T) {
	isolate(t)
	t.Setenv("HTMLBR_GEMINI_MODEL", "env-model")
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Gemini.Model != "env-model" {
		t.Errorf("expected model from env, got %q", cfg.Gemini.Model)
	}
	if key, _ := cfg.Credential(); key != "env-key" {
		t.Errorf("expected credential from GEMINI_API_KEY, got %q", key)
	}
}

func TestCredential_Missing(t *testing.T) {
	for _, key := range []string{"", "   "} {
		cfg := &Config{Gemini: GeminiConfig{APIKey: key}}
		if _, err := cfg.Credential(); !errors.Is(err, internal.ErrCredentialMissing) {
			t.Errorf("key %q: expected ErrCredentialMissing, got %v", key, err)
		}
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Enabled: true}}
	cfg.Gemini.Temperature = 3
	cfg.Retry.MaxAttempts = -1

	if err := cfg.Validate(); err == nil {
		t.Error("expected validation errors")
	}
}

func TestValidate_Temperature(t *testing.T) {
	tests := []struct {
		temp    float64
		wantErr bool
	}{
		{0, true},
		{-0.1, true},
		{0.2, false},
		{2, false},
		{2.5, true},
	}

	for _, tt := range tests {
		cfg := &Config{}
		cfg.Gemini.Temperature = tt.temp
		err := cfg.Validate()
		if (err != nil) != tt.wantErr {
			t.Errorf("temperature %v: wantErr=%v, got %v", tt.temp, tt.wantErr, err)
		}
	}
}

func TestLoad_ZeroTemperatureRejected(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "zero.yaml")
	if err := os.WriteFile(path, []byte("gemini:\n  temperature: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err == nil {
		t.Error("expected temperature 0 to be rejected instead of replaced by the client default")
	}
}
