package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/vvka-141/bqkit/pkg/bqkit"
	"google.golang.org/api/option"
)

// ClientConfig holds everything needed to construct a warehouse client.
// Credentials are resolved by the Google client libraries (Application
// Default Credentials) unless CredentialsFile names a key file.
type ClientConfig struct {
	// ProjectID is the project jobs are billed to and run in.
	ProjectID string

	// Location is the processing location for jobs (e.g. "US", "EU").
	// Empty lets the service pick.
	Location string

	// CredentialsFile is an optional service account key file.
	CredentialsFile string

	// Endpoint overrides the API endpoint, e.g. for an emulator. When set,
	// requests are sent without authentication.
	Endpoint string
}

// Validate checks that the configuration can be used to connect.
func (c ClientConfig) Validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project id is required (set --project, BQKIT_PROJECT or GOOGLE_CLOUD_PROJECT): %w", bqkit.ErrInvalidConfig)
	}
	if c.Endpoint != "" && c.CredentialsFile != "" {
		return fmt.Errorf("credentials file cannot be combined with a custom endpoint: %w", bqkit.ErrInvalidConfig)
	}
	return nil
}

// ClientOptions translates the configuration into client options.
func (c ClientConfig) ClientOptions() []option.ClientOption {
	var opts []option.ClientOption
	if c.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(c.CredentialsFile))
	}
	if c.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(c.Endpoint), option.WithoutAuthentication())
	}
	return opts
}

// Connect creates a BigQuery client and wraps it as a bqkit.Warehouse.
// The caller owns the returned warehouse and must Close it.
func Connect(ctx context.Context, cfg ClientConfig, logger bqkit.Logger) (*BigQueryWarehouse, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := bigquery.NewClient(ctx, cfg.ProjectID, cfg.ClientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("%w: create BigQuery client for project %s: %w", bqkit.ErrConnectionFailed, cfg.ProjectID, err)
	}
	if cfg.Location != "" {
		client.Location = cfg.Location
	}

	logger.Verbose("BigQuery client ready (project=%s, location=%s)", cfg.ProjectID, client.Location)
	return NewBigQueryWarehouse(client, logger), nil
}
