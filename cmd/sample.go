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

	"github.com/spf13/cobra"

	"github.com/valpere/htmlbr/internal/sheet"
)

var sampleOutputFile string

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a sample input file",
	Long: `Write a two-row file showing the expected input format: a "key" column
and an "english_string" column holding HTML.

Example:
  htmlbr sample
  htmlbr sample -o sample.csv`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := sheet.WriteSample(sampleOutputFile); err != nil {
			return fmt.Errorf("failed to write sample: %w", err)
		}
		fmt.Printf("Sample written to %s\n", sampleOutputFile)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVarP(&sampleOutputFile, "output", "o", "sample_translation_format.xlsx", "Output file (.xlsx or .csv)")
}
