// Package main provides the coursetrends CLI entry point.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	// .env is a dev convenience; absence is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd creates the root command. Running it without a subcommand
// executes the full pipeline: load, classify, aggregate, enrich with
// search interest, write tables and figures.
func newRootCmd() *cobra.Command {
	var rulesPath string
	var deliver bool

	rootCmd := &cobra.Command{
		Use:     "coursetrends",
		Short:   "Analyze course-catalog topic trends",
		Long:    "Coursetrends loads the Udemy and Coursera catalog CSVs, classifies courses into a topic vocabulary, aggregates yearly topic shares, enriches them with search-interest series and writes CSV tables and charts.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(context.Background(), runOptions{
				rulesPath:   rulesPath,
				deliver:     deliver,
				fetchTrends: true,
				renderFigs:  true,
			})
		},
	}

	rootCmd.SetVersionTemplate("coursetrends version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&rulesPath, "rules", "", "Path to a topic vocabulary YAML (built-in rules when empty)")
	rootCmd.Flags().BoolVar(&deliver, "sftp", false, "Upload the results bundle over SFTP after the run")

	rootCmd.AddCommand(newSmokeCmd(&rulesPath))

	return rootCmd
}

// newSmokeCmd creates the smoke subcommand: the offline half of the
// pipeline only. No network calls, no figures.
func newSmokeCmd(rulesPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run the offline pipeline stages only",
		Long:  "Smoke runs load, classify, aggregate and the CSV writers without touching the network or rendering figures. Useful to verify inputs quickly.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(context.Background(), runOptions{
				rulesPath: *rulesPath,
			})
		},
	}
}
