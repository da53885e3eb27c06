package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vvka-141/bqkit/internal/db"
	"github.com/vvka-141/bqkit/internal/testing/fakewarehouse"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

// sharedWarehouse keeps the fake usable across commands, each of which
// closes its warehouse.
type sharedWarehouse struct {
	*fakewarehouse.Warehouse
}

func (sharedWarehouse) Close() error { return nil }

func useFakeWarehouse(t *testing.T) (*fakewarehouse.Warehouse, *db.ClientConfig) {
	t.Helper()
	wh := fakewarehouse.New()
	var got db.ClientConfig

	original := connectWarehouse
	connectWarehouse = func(ctx context.Context, cfg db.ClientConfig, logger bqkit.Logger) (bqkit.Warehouse, error) {
		got = cfg
		return sharedWarehouse{wh}, nil
	}
	t.Cleanup(func() { connectWarehouse = original })
	return wh, &got
}

// isolateEnv clears the variables settings are resolved from and moves into
// an empty directory so no .env or config file is picked up.
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, name := range []string{
		"BQKIT_PROJECT", "GOOGLE_CLOUD_PROJECT", "BQKIT_LOCATION",
		"BQKIT_ENDPOINT", "GOOGLE_APPLICATION_CREDENTIALS",
	} {
		t.Setenv(name, "")
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func resetFlagSet(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func resetFlags() {
	resetFlagSet(rootCmd.PersistentFlags())
	for _, c := range rootCmd.Commands() {
		resetFlagSet(c.Flags())
	}
	globals = globalFlags{timeout: defaultTimeout}
	queryFlags = queryFlagValues{}
	loadFlags = loadFlagValues{}
	sampleFormat = "table"
}

func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func newTimeoutCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "x"}
	cmd.Flags().Duration("timeout", time.Minute, "")
	return cmd
}
