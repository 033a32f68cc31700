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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "htmlbr",
	Short: "Batch HTML translator, English to Brazilian Portuguese",
	Long: `A CLI application that translates the english_string column of a spreadsheet
into Brazilian Portuguese with the Gemini API, keeping HTML markup, entities,
URLs, e-mail addresses and brand names intact.

Rows are translated one at a time. Rate-limited calls are retried with
exponential backoff; any other failure is recorded for that row and the
batch continues.

Use "htmlbr translate --help" for translation options.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./htmlbr.yaml or $HOME/.htmlbr.yaml)")
}
