package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bqkit",
	Short: "BigQuery query and load helpers",
	Long: `bqkit runs SQL against BigQuery, builds the sample movies dataset and
loads datasets into BigQuery tables with an explicit write disposition.

Configuration precedence (highest first):
  flags > environment (BQKIT_*, GOOGLE_CLOUD_PROJECT) > bqkit.yaml/bqkit.toml > defaults
A .env file in the working directory is loaded before the environment is read.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration, table id or dataset
  11 - BigQuery client could not be created
  12 - Authentication or permission denied
  13 - Query job failed
  14 - Load job failed
  15 - Destination table not empty (WRITE_EMPTY)`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	rootCmd.PersistentFlags().StringVar(&globals.project, "project", "",
		"Project jobs run in and are billed to\n"+
			"Precedence: --project > $BQKIT_PROJECT > $GOOGLE_CLOUD_PROJECT > config file")
	rootCmd.PersistentFlags().StringVar(&globals.location, "location", "",
		"Processing location for jobs (default \"US\", or $BQKIT_LOCATION)")
	rootCmd.PersistentFlags().StringVar(&globals.endpoint, "endpoint", "",
		"Override the BigQuery API endpoint, e.g. an emulator (or $BQKIT_ENDPOINT)\n"+
			"Requests to a custom endpoint are sent without authentication")
	rootCmd.PersistentFlags().StringVar(&globals.credentials, "credentials", "",
		"Service account key file (default: Application Default Credentials)")
	rootCmd.PersistentFlags().StringVar(&globals.configPath, "config", "",
		"Config file (default: ./bqkit.yaml, then ./bqkit.toml)")
	rootCmd.PersistentFlags().DurationVar(&globals.timeout, "timeout", defaultTimeout,
		"Upper bound for the whole command, including waiting for jobs\n"+
			"0 waits until jobs finish. Examples: 30s, 5m, 1h")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
