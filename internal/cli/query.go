package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vvka-141/bqkit/internal/logging"
	"github.com/vvka-141/bqkit/internal/output"
	"github.com/vvka-141/bqkit/internal/query"
	"github.com/vvka-141/bqkit/internal/tui"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a SQL query and print its rows",
	Long: `Query submits SQL as a BigQuery query job and prints one line per row.

Without --sql or --sql-file the query from the config file is used, and
without that the built-in query returning the 20 most common names in
Texas from bigquery-public-data.usa_names.

With --frame the rows are also collected, in the same pass, into a dataset
that is rendered after the row lines.

Examples:
  # Built-in usa_names query
  bqkit query --project my-project

  # Custom query rendered as CSV
  bqkit query --sql 'SELECT 1 AS one' --frame --format csv`,
	Args: cobra.NoArgs,
	RunE: runQuery,
}

type queryFlagValues struct {
	sql     string
	sqlFile string
	frame   bool
	format  string
}

var queryFlags queryFlagValues

func init() {
	rootCmd.AddCommand(queryCmd)

	queryCmd.Flags().StringVar(&queryFlags.sql, "sql", "",
		"SQL to run (mutually exclusive with --sql-file)")
	queryCmd.Flags().StringVar(&queryFlags.sqlFile, "sql-file", "",
		"Read the SQL to run from a file")
	queryCmd.Flags().BoolVar(&queryFlags.frame, "frame", false,
		"Collect the rows into a dataset and render it after the row lines")
	queryCmd.Flags().StringVar(&queryFlags.format, "format", "",
		"Dataset output format with --frame: "+strings.Join(output.Names, "|")+" (default table)")
	queryCmd.MarkFlagsMutuallyExclusive("sql", "sql-file")
}

// resolveSQL picks the SQL to run.
// Priority (highest to lowest): --sql > --sql-file > config query.sql > built-in
func resolveSQL(flags queryFlagValues, configured string) (string, error) {
	switch {
	case flags.sql != "":
		return flags.sql, nil
	case flags.sqlFile != "":
		data, err := os.ReadFile(flags.sqlFile)
		if err != nil {
			return "", fmt.Errorf("failed to read SQL file: %w: %w", bqkit.ErrInvalidConfig, err)
		}
		return string(data), nil
	case configured != "":
		return configured, nil
	}
	return query.DefaultQuery, nil
}

func runQuery(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), verbose)

	s, err := resolveSettings(cmd, globals)
	if err != nil {
		return err
	}

	sql, err := resolveSQL(queryFlags, s.Project.Query.SQL)
	if err != nil {
		return err
	}

	var formatter output.Formatter
	if queryFlags.frame {
		formatter, err = output.ForName(firstNonEmpty(queryFlags.format, s.Project.Query.Format), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	ctx, cancel := commandContext(s.Timeout)
	defer cancel()

	warehouse, err := connectWarehouse(ctx, s.Client, logger)
	if err != nil {
		return err
	}
	defer warehouse.Close()

	runner := query.NewRunner(warehouse, logger, cmd.OutOrStdout())
	if sql != query.DefaultQuery {
		runner = runner.WithLineFormatter(query.GenericLine)
	}

	status := tui.NewPrinter(cmd.ErrOrStderr())
	if formatter == nil {
		n, err := runner.Run(ctx, sql, nil)
		if err != nil {
			return err
		}
		status.Muted("%d row(s)", n)
		return nil
	}

	f, err := runner.RunToFrame(ctx, sql)
	if err != nil {
		return err
	}
	status.Muted("%d row(s), %d column(s)", f.Len(), len(f.Columns()))
	return formatter.Format(f)
}
