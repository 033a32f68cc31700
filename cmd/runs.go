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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/htmlbr/internal"
	"github.com/valpere/htmlbr/internal/sheet"
	"github.com/valpere/htmlbr/internal/store"
)

var (
	runsDBPath     string
	runsExportFile string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the history of translation runs",
	Long: `List, inspect, export and delete recorded translation runs.

Every translate invocation records its rows and outcomes in SQLite unless
--no-db is given. The history is never used to skip rows in later runs.`,
}

// withRunsStore opens the database from --db, falling back to store.path.
func withRunsStore(fn func(ctx context.Context, db *store.Store) error) error {
	path := runsDBPath
	if path == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Store.Path
	}

	db, err := store.New(path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return fn(context.Background(), db)
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, most recent first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunsStore(func(ctx context.Context, db *store.Store) error {
			runs, err := db.ListRuns(ctx)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}

			if len(runs) == 0 {
				fmt.Println("No runs recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTARTED\tSTATUS\tMODEL\tROWS\tOK\tSKIPPED\tFAILED\tINPUT")
			for _, r := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.Status, r.Model,
					r.Summary.Total, r.Summary.Succeeded, r.Summary.Skipped, r.Summary.Failed,
					r.InputFile)
			}
			return w.Flush()
		})
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the per-row outcomes of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunsStore(func(ctx context.Context, db *store.Store) error {
			run, err := db.GetRun(ctx, args[0])
			if err != nil {
				return err
			}
			rows, err := db.GetRunRows(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load rows: %w", err)
			}

			fmt.Printf("Run:     %s\n", run.ID)
			fmt.Printf("Input:   %s\n", run.InputFile)
			fmt.Printf("Output:  %s\n", run.OutputFile)
			fmt.Printf("Model:   %s\n", run.Model)
			fmt.Printf("Status:  %s\n", run.Status)
			fmt.Printf("Started: %s\n\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "#\tKEY\tSTATUS\tOUTPUT")
			for i, r := range rows {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i+1, r.Request.Key, r.Outcome.Status, snippet(internal.Project(r.Outcome), 60))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			fmt.Println()
			printSummary(os.Stdout, rows)
			return nil
		})
	},
}

var runsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Write the key, english_string and portuguese_string columns of a run to a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunsStore(func(ctx context.Context, db *store.Store) error {
			if _, err := db.GetRun(ctx, args[0]); err != nil {
				return err
			}
			rows, err := db.GetRunRows(ctx, args[0])
			if err != nil {
				return err
			}
			if err := sheet.Write(runsExportFile, sheet.FromResult(rows), rows); err != nil {
				return fmt.Errorf("failed to export run: %w", err)
			}
			fmt.Printf("Exported %d rows to %s\n", len(rows), runsExportFile)
			return nil
		})
	},
}

var runsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a run and its rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRunsStore(func(ctx context.Context, db *store.Store) error {
			if err := db.DeleteRun(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete run: %w", err)
			}
			fmt.Printf("Deleted run: %s\n", args[0])
			return nil
		})
	},
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.PersistentFlags().StringVar(&runsDBPath, "db", "", "Database path (default store.path from config)")
	runsExportCmd.Flags().StringVarP(&runsExportFile, "output", "o", "", "Output .xlsx or .csv file (required)")
	runsExportCmd.MarkFlagRequired("output")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsDeleteCmd)
}
