/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/valpere/htmlbr/internal/config"
	"github.com/valpere/htmlbr/internal/prompt"
	"github.com/valpere/htmlbr/internal/store"
	"github.com/valpere/htmlbr/internal/translator"
)

// buildService constructs the Gemini client from configuration. Rate-limit
// waits are reported on w.
func buildService(cfg *config.Config, w io.Writer) *translator.GeminiService {
	svc := translator.NewGeminiService(cfg.Service(), cfg.Retry, prompt.New(cfg.Prompt.DNTTerms))
	svc.SetNotifier(func(attempt, maxAttempts int, delay time.Duration) {
		fmt.Fprintf(w, "Rate limit hit. Retrying in %s... (Attempt %d/%d)\n", delay, attempt, maxAttempts)
	})
	return svc
}

// openStore opens the run history database, creating its directory.
func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// loadConfig reads configuration honouring the global --config flag.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
