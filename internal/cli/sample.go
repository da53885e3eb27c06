package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/bqkit/internal/output"
	"github.com/vvka-141/bqkit/internal/sample"
	"github.com/vvka-141/bqkit/internal/tui"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the sample movies dataset",
	Long: `Sample builds the four-record movies dataset that load writes and prints
it. release_date values are instants shown in UTC; dvd_release values are
naive date-times and are printed as written.

No BigQuery access is needed.`,
	Args: cobra.NoArgs,
	RunE: runSample,
}

var sampleFormat string

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVar(&sampleFormat, "format", "table",
		"Output format: "+strings.Join(output.Names, "|"))
}

func runSample(cmd *cobra.Command, args []string) error {
	formatter, err := output.ForName(sampleFormat, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	f, err := sample.Movies()
	if err != nil {
		return err
	}

	tui.NewPrinter(cmd.ErrOrStderr()).Header("Sample movies (index %s)", f.IndexName())
	return formatter.Format(f)
}
