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
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/valpere/htmlbr/internal"
	"github.com/valpere/htmlbr/internal/config"
	"github.com/valpere/htmlbr/internal/orchestrator"
	"github.com/valpere/htmlbr/internal/sheet"
	"github.com/valpere/htmlbr/internal/store"
	"github.com/valpere/htmlbr/internal/validator"
)

var (
	inputFile  string
	outputFile string

	modelName       string
	maxOutputTokens int
	cleanOutput     bool
	checkMarkup     bool

	dbPath string
	noDB   bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate the english_string column of a spreadsheet",
	Long: `Translate every row of an .xlsx or .csv file that has the columns
"key" and "english_string". The output keeps all input columns and adds
"portuguese_string".

Blank or non-text cells are skipped. A row that fails gets an error
placeholder in the output and the batch continues:
  Error: Unexpected response format.
  Error: HTTP <status>
  Error: API call failed.
  Error: Max retries exceeded.

The API key is read from GEMINI_API_KEY (or gemini.api_key in the config).

Example:
  htmlbr translate -i strings.xlsx
  htmlbr translate -i strings.csv -o out/strings-pt.csv --clean
  htmlbr translate -i strings.xlsx --check-markup`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		applyTranslateFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		out := outputFile
		if out == "" {
			out = defaultOutputPath(inputFile)
		}
		if filepath.Clean(inputFile) == filepath.Clean(out) {
			return fmt.Errorf("input file and output file cannot be the same")
		}

		result, err := translateFile(context.Background(), cfg, inputFile, out, os.Stderr)
		if err != nil {
			return err
		}

		printSummary(os.Stdout, result)
		fmt.Printf("Output written to %s\n", out)
		return nil
	},
}

func applyTranslateFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("model") {
		cfg.Gemini.Model = modelName
	}
	if flags.Changed("max-output-tokens") {
		cfg.Gemini.MaxOutputTokens = maxOutputTokens
	}
	if flags.Changed("clean") {
		cfg.Output.Clean = cleanOutput
	}
	if flags.Changed("check-markup") {
		cfg.Output.CheckMarkup = checkMarkup
	}
	if flags.Changed("db") {
		cfg.Store.Path = dbPath
	}
	if noDB {
		cfg.Store.Enabled = false
	}
}

// defaultOutputPath derives "<slug>-pt-br.<ext>" next to the input.
func defaultOutputPath(in string) string {
	ext := filepath.Ext(in)
	name := slug.Make(strings.TrimSuffix(filepath.Base(in), ext))
	if name == "" {
		name = "translated"
	}
	return filepath.Join(filepath.Dir(in), name+"-pt-br"+ext)
}

// translateFile runs one batch: read and validate the table, check the output
// path and the credential, translate every row, then hand the result to the
// sinks. Input, output path and credential problems abort before any remote
// call.
func translateFile(ctx context.Context, cfg *config.Config, in, out string, w io.Writer) (internal.BatchResult, error) {
	table, err := sheet.Read(in)
	if err != nil {
		return nil, err
	}
	reqs, err := table.Requests()
	if err != nil {
		return nil, err
	}

	if err := sheet.CheckOutput(out); err != nil {
		return nil, err
	}

	apiKey, err := cfg.Credential()
	if err != nil {
		return nil, err
	}

	var history internal.Sink
	if cfg.Store.Enabled {
		db, err := openStore(cfg.Store.Path)
		if err != nil {
			fmt.Fprintf(w, "Warning: run history disabled: %v\n", err)
		} else {
			defer db.Close()
			runID, err := db.CreateRun(ctx, in, out, cfg.Gemini.Model)
			if err != nil {
				fmt.Fprintf(w, "Warning: failed to record run: %v\n", err)
			} else {
				fmt.Fprintf(w, "Run ID: %s\n", runID)
				history = store.NewRunSink(db, runID)
			}
		}
	}

	svc := buildService(cfg, w)
	fmt.Fprintf(w, "Translating %d rows with %s (%s)\n", len(reqs), svc.Name(), cfg.Gemini.Model)

	result := orchestrator.New(svc).Run(ctx, apiKey, reqs, func(completed, total int, key string) {
		fmt.Fprintf(w, "Translating row %d/%d (%s)\n", completed, total, key)
	})

	if cfg.Output.CheckMarkup {
		reportMarkup(w, validator.New(cfg.Prompt.DNTTerms), result)
	}

	// History goes first so a failed file write can still be exported with
	// "runs export". The history is best effort; the spreadsheet is not.
	if history != nil {
		if err := history.Consume(ctx, result); err != nil {
			fmt.Fprintf(w, "Warning: %v\n", err)
		}
	}
	if err := sheet.NewFileSink(out, table).Consume(ctx, result); err != nil {
		return result, err
	}

	return result, nil
}

// reportMarkup warns about successful rows whose markup differs from the
// source. Outcomes are left as they are.
func reportMarkup(w io.Writer, v *validator.Validator, result internal.BatchResult) int {
	n := 0
	for _, r := range result {
		if r.Outcome.Status != internal.StatusSuccess {
			continue
		}
		if ok, err := v.IsValid(r.Request.SourceText, r.Outcome.Text); !ok {
			n++
			fmt.Fprintf(w, "Warning: %s: markup differs from source: %s\n", r.Request.Key, strings.ReplaceAll(err.Error(), "\n", "; "))
		}
	}
	return n
}

func printSummary(w io.Writer, result internal.BatchResult) {
	s := result.Summary()
	fmt.Fprintf(w, "Rows: %d  succeeded: %d  skipped: %d  failed: %d\n", s.Total, s.Succeeded, s.Skipped, s.Failed)
	for _, r := range result {
		if r.Outcome.Status == internal.StatusFailed {
			fmt.Fprintf(w, "  %s: %s (%s)\n", r.Request.Key, r.Outcome.Kind, r.Outcome.Detail)
		}
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input .xlsx or .csv file (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default <input>-pt-br.<ext>)")

	translateCmd.Flags().StringVar(&modelName, "model", "", "Gemini model (overrides gemini.model)")
	translateCmd.Flags().IntVar(&maxOutputTokens, "max-output-tokens", 0, "Maximum output tokens per row (overrides gemini.max_output_tokens)")
	translateCmd.Flags().BoolVar(&cleanOutput, "clean", false, "Strip code fences and reasoning blocks wrapped around the answer")
	translateCmd.Flags().BoolVar(&checkMarkup, "check-markup", false, "Warn when a translation changes tags, entities, URLs or DNT terms")

	translateCmd.Flags().StringVar(&dbPath, "db", "", "Database path for run history (overrides store.path)")
	translateCmd.Flags().BoolVar(&noDB, "no-db", false, "Do not record this run")

	translateCmd.MarkFlagRequired("input")
}
