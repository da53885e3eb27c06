package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/bqkit/internal/config"
	"github.com/vvka-141/bqkit/internal/query"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

func TestResolveSettings_Precedence(t *testing.T) {
	dir := isolateEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bqkit.yaml"), []byte(`
project: cfg-project
location: EU
endpoint: http://localhost:9050
timeout: 2m
`), 0o644))

	t.Run("config file", func(t *testing.T) {
		s, err := resolveSettings(newTimeoutCmd(), globalFlags{timeout: defaultTimeout})
		require.NoError(t, err)
		assert.Equal(t, "cfg-project", s.Client.ProjectID)
		assert.Equal(t, "EU", s.Client.Location)
		assert.Equal(t, "http://localhost:9050", s.Client.Endpoint)
		assert.Equal(t, 2*time.Minute, s.Timeout)
	})

	t.Run("environment beats config file", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "gcp-project")
		t.Setenv("BQKIT_LOCATION", "asia-northeast1")
		s, err := resolveSettings(newTimeoutCmd(), globalFlags{timeout: defaultTimeout})
		require.NoError(t, err)
		assert.Equal(t, "gcp-project", s.Client.ProjectID)
		assert.Equal(t, "asia-northeast1", s.Client.Location)
	})

	t.Run("BQKIT_PROJECT beats GOOGLE_CLOUD_PROJECT", func(t *testing.T) {
		t.Setenv("GOOGLE_CLOUD_PROJECT", "gcp-project")
		t.Setenv("BQKIT_PROJECT", "bqkit-project")
		s, err := resolveSettings(newTimeoutCmd(), globalFlags{timeout: defaultTimeout})
		require.NoError(t, err)
		assert.Equal(t, "bqkit-project", s.Client.ProjectID)
	})

	t.Run("flags beat everything", func(t *testing.T) {
		t.Setenv("BQKIT_PROJECT", "bqkit-project")
		cmd := newTimeoutCmd()
		require.NoError(t, cmd.Flags().Set("timeout", "30s"))
		s, err := resolveSettings(cmd, globalFlags{project: "flag-project", location: "US", timeout: 30 * time.Second})
		require.NoError(t, err)
		assert.Equal(t, "flag-project", s.Client.ProjectID)
		assert.Equal(t, "US", s.Client.Location)
		assert.Equal(t, 30*time.Second, s.Timeout)
	})
}

func TestResolveSettings_Defaults(t *testing.T) {
	isolateEnv(t)

	s, err := resolveSettings(newTimeoutCmd(), globalFlags{project: "p", timeout: defaultTimeout})
	require.NoError(t, err)
	assert.Equal(t, bqkit.DefaultLocation, s.Client.Location)
	assert.Equal(t, bqkit.DefaultTimeout, s.Timeout)
	assert.Empty(t, s.Client.Endpoint)
	require.NotNil(t, s.Project)
}

func TestResolveSettings_DotEnv(t *testing.T) {
	dir := isolateEnv(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("BQKIT_PROJECT=dotenv-project\n"), 0o644))
	// godotenv never overrides variables that are already set
	require.NoError(t, os.Unsetenv("BQKIT_PROJECT"))

	s, err := resolveSettings(newTimeoutCmd(), globalFlags{timeout: defaultTimeout})
	require.NoError(t, err)
	assert.Equal(t, "dotenv-project", s.Client.ProjectID)
}

func TestResolveSettings_ApplicationCredentialsIgnoredForEndpoint(t *testing.T) {
	isolateEnv(t)
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/keys/sa.json")

	s, err := resolveSettings(newTimeoutCmd(), globalFlags{project: "p", endpoint: "http://localhost:9050", timeout: defaultTimeout})
	require.NoError(t, err)
	assert.Empty(t, s.Client.CredentialsFile)

	s, err = resolveSettings(newTimeoutCmd(), globalFlags{project: "p", timeout: defaultTimeout})
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", s.Client.CredentialsFile)
}

func TestResolveSettings_ZeroTimeoutMeansNoDeadline(t *testing.T) {
	dir := isolateEnv(t)

	t.Run("default", func(t *testing.T) {
		s, err := resolveSettings(newTimeoutCmd(), globalFlags{project: "p", timeout: defaultTimeout})
		require.NoError(t, err)
		assert.Zero(t, s.Timeout)
	})

	t.Run("flag", func(t *testing.T) {
		cmd := newTimeoutCmd()
		require.NoError(t, cmd.Flags().Set("timeout", "0s"))
		s, err := resolveSettings(cmd, globalFlags{project: "p", timeout: 0})
		require.NoError(t, err)
		assert.Zero(t, s.Timeout)
	})

	t.Run("config file", func(t *testing.T) {
		path := filepath.Join(dir, "zero.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timeout: 0s\n"), 0o644))
		s, err := resolveSettings(newTimeoutCmd(), globalFlags{project: "p", configPath: path, timeout: time.Minute})
		require.NoError(t, err)
		assert.Zero(t, s.Timeout)
	})
}

func TestResolveSettings_Errors(t *testing.T) {
	dir := isolateEnv(t)

	t.Run("missing explicit config file", func(t *testing.T) {
		_, err := resolveSettings(newTimeoutCmd(), globalFlags{project: "p", configPath: filepath.Join(dir, "nope.yaml"), timeout: defaultTimeout})
		assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
	})

	t.Run("invalid timeout in config", func(t *testing.T) {
		path := filepath.Join(dir, "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("timeout = \"soon\"\n"), 0o644))
		_, err := resolveSettings(newTimeoutCmd(), globalFlags{project: "p", configPath: path, timeout: defaultTimeout})
		assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
	})

	t.Run("negative timeout flag", func(t *testing.T) {
		cmd := newTimeoutCmd()
		require.NoError(t, cmd.Flags().Set("timeout", "-1s"))
		_, err := resolveSettings(cmd, globalFlags{project: "p", timeout: -time.Second})
		assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
	})

	t.Run("negative timeout in config", func(t *testing.T) {
		path := filepath.Join(dir, "negative.yaml")
		require.NoError(t, os.WriteFile(path, []byte("timeout: -1s\n"), 0o644))
		_, err := resolveSettings(newTimeoutCmd(), globalFlags{project: "p", configPath: path, timeout: defaultTimeout})
		assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
	})

	t.Run("credentials with endpoint", func(t *testing.T) {
		_, err := resolveSettings(newTimeoutCmd(), globalFlags{project: "p", credentials: "sa.json", endpoint: "http://x", timeout: defaultTimeout})
		assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
	})
}

func TestResolveSQL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "q.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 3"), 0o644))

	tests := []struct {
		name       string
		flags      queryFlagValues
		configured string
		want       string
		wantErr    bool
	}{
		{name: "built-in", want: query.DefaultQuery},
		{name: "config", configured: "SELECT 1", want: "SELECT 1"},
		{name: "sql flag", flags: queryFlagValues{sql: "SELECT 2"}, configured: "SELECT 1", want: "SELECT 2"},
		{name: "sql file", flags: queryFlagValues{sqlFile: path}, configured: "SELECT 1", want: "SELECT 3"},
		{name: "missing file", flags: queryFlagValues{sqlFile: filepath.Join(dir, "missing.sql")}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveSQL(tt.flags, tt.configured)
			if tt.wantErr {
				assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		dest, cfg, err := buildLoadConfig([]string{"movies.t"}, loadFlagValues{}, "p", config.LoadConfig{})
		require.NoError(t, err)
		assert.Equal(t, bqkit.TableRef{ProjectID: "p", DatasetID: "movies", TableID: "t"}, dest)
		assert.Equal(t, bqkit.WriteTruncate, cfg.WriteDisposition)
		assert.Equal(t, bqkit.SourceParquet, cfg.SourceFormat)
		assert.Len(t, cfg.Schema, 2)
	})

	t.Run("flags beat config", func(t *testing.T) {
		_, cfg, err := buildLoadConfig([]string{"movies.t"},
			loadFlagValues{writeDisposition: "WRITE_EMPTY", sourceFormat: "json"}, "p",
			config.LoadConfig{WriteDisposition: "append", SourceFormat: "csv"})
		require.NoError(t, err)
		assert.Equal(t, bqkit.WriteEmpty, cfg.WriteDisposition)
		assert.Equal(t, bqkit.SourceJSON, cfg.SourceFormat)
	})

	t.Run("argument beats config table", func(t *testing.T) {
		dest, _, err := buildLoadConfig([]string{"a.b.c"}, loadFlagValues{}, "p", config.LoadConfig{Table: "x.y"})
		require.NoError(t, err)
		assert.Equal(t, "a.b.c", dest.String())
	})

	t.Run("missing table", func(t *testing.T) {
		_, _, err := buildLoadConfig(nil, loadFlagValues{}, "p", config.LoadConfig{})
		assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
	})

	t.Run("unknown disposition", func(t *testing.T) {
		_, _, err := buildLoadConfig([]string{"d.t"}, loadFlagValues{writeDisposition: "overwrite"}, "p", config.LoadConfig{})
		assert.ErrorIs(t, err, bqkit.ErrInvalidConfig)
	})
}
