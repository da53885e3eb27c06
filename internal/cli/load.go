package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vvka-141/bqkit/internal/config"
	"github.com/vvka-141/bqkit/internal/loader"
	"github.com/vvka-141/bqkit/internal/logging"
	"github.com/vvka-141/bqkit/internal/sample"
	"github.com/vvka-141/bqkit/internal/tui"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

var loadCmd = &cobra.Command{
	Use:   "load [table_id]",
	Short: "Load the sample movies dataset into a table",
	Long: `Load writes the sample movies dataset into a BigQuery table with a load
job, waits for the job to finish and reports the table size.

Arguments:
  table_id    project.dataset.table, or dataset.table in the resolved
              project. Defaults to load.table from the config file.

Write dispositions:
  truncate    Replace the table contents (default)
  append      Add rows to the table
  empty       Fail unless the table is empty (exit code 15)

Examples:
  bqkit load my-project.movies.monty_python
  bqkit load movies.monty_python --write-disposition append
  bqkit load movies.monty_python --source-format csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

type loadFlagValues struct {
	writeDisposition string
	sourceFormat     string
}

var loadFlags loadFlagValues

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadFlags.writeDisposition, "write-disposition", "",
		"truncate|append|empty (default truncate, or load.write_disposition)")
	loadCmd.Flags().StringVar(&loadFlags.sourceFormat, "source-format", "",
		"Payload encoding: parquet|csv|json (default parquet, or load.source_format)")
}

// buildLoadConfig resolves the destination and job configuration.
// Priority (highest to lowest): argument/flags > config file > defaults
func buildLoadConfig(args []string, flags loadFlagValues, projectID string, cfg config.LoadConfig) (bqkit.TableRef, bqkit.LoadJobConfig, error) {
	jobCfg := loader.DefaultConfig()

	tableID := cfg.Table
	if len(args) > 0 {
		tableID = args[0]
	}
	if tableID == "" {
		return bqkit.TableRef{}, jobCfg, fmt.Errorf("table id is required (argument or load.table in config): %w", bqkit.ErrInvalidConfig)
	}
	dest, err := bqkit.ParseTableRef(tableID, projectID)
	if err != nil {
		return bqkit.TableRef{}, jobCfg, err
	}

	if d := firstNonEmpty(flags.writeDisposition, cfg.WriteDisposition); d != "" {
		if jobCfg.WriteDisposition, err = bqkit.ParseWriteDisposition(d); err != nil {
			return bqkit.TableRef{}, jobCfg, err
		}
	}
	if f := firstNonEmpty(flags.sourceFormat, cfg.SourceFormat); f != "" {
		if jobCfg.SourceFormat, err = bqkit.ParseSourceFormat(f); err != nil {
			return bqkit.TableRef{}, jobCfg, err
		}
	}
	return dest, jobCfg, nil
}

func runLoad(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)
	logger := logging.NewWriterLogger(cmd.ErrOrStderr(), verbose)

	s, err := resolveSettings(cmd, globals)
	if err != nil {
		return err
	}

	dest, jobCfg, err := buildLoadConfig(args, loadFlags, s.Client.ProjectID, s.Project.Load)
	if err != nil {
		return err
	}

	f, err := sample.Movies()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext(s.Timeout)
	defer cancel()

	warehouse, err := connectWarehouse(ctx, s.Client, logger)
	if err != nil {
		return err
	}
	defer warehouse.Close()

	if _, err := loader.New(warehouse, logger, cmd.OutOrStdout()).Load(ctx, f, dest, jobCfg); err != nil {
		return err
	}

	tui.NewPrinter(cmd.ErrOrStderr()).Success("%s into %s", jobCfg.WriteDisposition, dest)
	return nil
}
