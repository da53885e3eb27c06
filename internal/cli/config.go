package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/bqkit/internal/config"
	"github.com/vvka-141/bqkit/internal/db"
	"github.com/vvka-141/bqkit/pkg/bqkit"
)

const defaultTimeout = bqkit.DefaultTimeout

// globalFlags holds the persistent flag values shared by every command.
type globalFlags struct {
	project     string
	location    string
	endpoint    string
	credentials string
	configPath  string
	timeout     time.Duration
}

var globals = globalFlags{timeout: defaultTimeout}

// settings is the resolved configuration of one command invocation.
type settings struct {
	Client  db.ClientConfig
	Timeout time.Duration
	Project *config.ProjectConfig
}

// connectWarehouse is replaced in tests.
var connectWarehouse = func(ctx context.Context, cfg db.ClientConfig, logger bqkit.Logger) (bqkit.Warehouse, error) {
	return db.Connect(ctx, cfg, logger)
}

// loadProjectConfig loads .env and the project configuration.
// Returns an empty config if no config file exists and none was requested.
func loadProjectConfig(path string) (*config.ProjectConfig, error) {
	_ = godotenv.Load()

	if path != "" {
		cfg, err := config.LoadFile(path)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) {
				return nil, fmt.Errorf("config file %s does not exist: %w", path, bqkit.ErrInvalidConfig)
			}
			return nil, fmt.Errorf("failed to load %s: %w: %w", path, bqkit.ErrInvalidConfig, err)
		}
		return cfg, nil
	}

	cfg, err := config.Load(".")
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return &config.ProjectConfig{}, nil // Config file not found is not an error
		}
		return nil, fmt.Errorf("failed to load project config: %w: %w", bqkit.ErrInvalidConfig, err)
	}
	return cfg, nil
}

// resolveSettings merges flags, environment and the project config.
// Priority (highest to lowest): flags > environment > config file > defaults
func resolveSettings(cmd *cobra.Command, flags globalFlags) (*settings, error) {
	projectCfg, err := loadProjectConfig(flags.configPath)
	if err != nil {
		return nil, err
	}

	endpoint := firstNonEmpty(flags.endpoint, os.Getenv("BQKIT_ENDPOINT"), projectCfg.Endpoint)
	credentials := firstNonEmpty(flags.credentials, projectCfg.CredentialsFile)
	if credentials == "" && endpoint == "" {
		credentials = os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")
	}

	client := db.ClientConfig{
		ProjectID:       firstNonEmpty(flags.project, os.Getenv("BQKIT_PROJECT"), os.Getenv("GOOGLE_CLOUD_PROJECT"), projectCfg.Project),
		Location:        firstNonEmpty(flags.location, os.Getenv("BQKIT_LOCATION"), projectCfg.Location, bqkit.DefaultLocation),
		CredentialsFile: credentials,
		Endpoint:        endpoint,
	}
	if err := client.Validate(); err != nil {
		return nil, err
	}

	timeout, err := resolveEffectiveTimeout(cmd, projectCfg, flags.timeout)
	if err != nil {
		return nil, err
	}

	return &settings{Client: client, Timeout: timeout, Project: projectCfg}, nil
}

// resolveEffectiveTimeout returns the effective timeout, preferring the
// config file if the flag wasn't set. Zero disables the deadline.
func resolveEffectiveTimeout(cmd *cobra.Command, projectCfg *config.ProjectConfig, flagTimeout time.Duration) (time.Duration, error) {
	if projectCfg != nil && projectCfg.Timeout != "" && !cmd.Flags().Changed("timeout") {
		parsed, err := time.ParseDuration(projectCfg.Timeout)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q in config: %w", projectCfg.Timeout, bqkit.ErrInvalidConfig)
		}
		if parsed < 0 {
			return 0, fmt.Errorf("timeout in config must not be negative, got %s: %w", parsed, bqkit.ErrInvalidConfig)
		}
		return parsed, nil
	}
	if flagTimeout < 0 {
		return 0, fmt.Errorf("timeout must not be negative, got %s: %w", flagTimeout, bqkit.ErrInvalidConfig)
	}
	return flagTimeout, nil
}

// commandContext returns a context cancelled on SIGINT or SIGTERM and,
// when timeout is positive, bounded by it.
func commandContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}

	// Handle interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "\n[INTERRUPT] Received interrupt signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
