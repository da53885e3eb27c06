package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllFieldsYAML(t *testing.T) {
	dir := t.TempDir()
	content := `project: my-project
location: EU
credentials_file: /path/key.json
timeout: 5m

query:
  sql: SELECT 1
  format: csv

load:
  table: my-project.movies.films
  write_disposition: append
  source_format: parquet
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, YAMLFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "my-project", cfg.Project)
	assert.Equal(t, "EU", cfg.Location)
	assert.Equal(t, "/path/key.json", cfg.CredentialsFile)
	assert.Equal(t, "5m", cfg.Timeout)
	assert.Equal(t, "SELECT 1", cfg.Query.SQL)
	assert.Equal(t, "csv", cfg.Query.Format)
	assert.Equal(t, "my-project.movies.films", cfg.Load.Table)
	assert.Equal(t, "append", cfg.Load.WriteDisposition)
	assert.Equal(t, "parquet", cfg.Load.SourceFormat)
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	content := `project = "toml-project"
endpoint = "http://localhost:9050"

[load]
table = "movies.films"
write_disposition = "WRITE_EMPTY"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "toml-project", cfg.Project)
	assert.Equal(t, "http://localhost:9050", cfg.Endpoint)
	assert.Equal(t, "movies.films", cfg.Load.Table)
	assert.Equal(t, "WRITE_EMPTY", cfg.Load.WriteDisposition)
}

func TestLoad_YAMLTakesPrecedenceOverTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, YAMLFileName), []byte("project: from-yaml\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte(`project = "from-toml"`), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.Project)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, YAMLFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, TOMLFileName), []byte("project = ["), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, YAMLFileName), []byte(""), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, ProjectConfig{}, *cfg)
}

func TestLoadFile_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bqkit.ini")
	require.NoError(t, os.WriteFile(path, []byte("project=x"), 0644))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config file extension")
}
