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
	"os"

	"github.com/spf13/cobra"

	"github.com/valpere/htmlbr/internal/prompt"
)

var (
	promptFile     string
	promptDNTTerms []string
)

var promptCmd = &cobra.Command{
	Use:   "prompt [html]",
	Short: "Print the prompt sent to the model for one source string",
	Long: `Print the exact text sent to the Gemini API for a source string, without
calling the API. The source is taken from the argument or from --file.

The do-not-translate terms come from prompt.dnt_terms in the config unless
--dnt is given.

Example:
  htmlbr prompt "<p>Welcome to <strong>Element X</strong></p>"
  htmlbr prompt -f snippet.html --dnt Acme --dnt "Acme Cloud"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var src string
		switch {
		case promptFile != "":
			data, err := os.ReadFile(promptFile)
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			src = string(data)
		case len(args) == 1:
			src = args[0]
		default:
			return fmt.Errorf("provide the source text as an argument or with --file")
		}

		terms := promptDNTTerms
		if !cmd.Flags().Changed("dnt") {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			terms = cfg.Prompt.DNTTerms
		}

		fmt.Print(prompt.New(terms).Build(src))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(promptCmd)

	promptCmd.Flags().StringVarP(&promptFile, "file", "f", "", "Read the source text from a file")
	promptCmd.Flags().StringArrayVar(&promptDNTTerms, "dnt", nil, "Do-not-translate term (repeatable)")
}
