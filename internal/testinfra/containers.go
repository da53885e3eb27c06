// Package testinfra starts the containers the emulator test suites run
// against.
package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	EmulatorImage   = "ghcr.io/goccy/bigquery-emulator:0.6.6"
	EmulatorProject = "bqkit-test"
	EmulatorDataset = "movies"

	emulatorPort = "9050/tcp"
)

// EmulatorContainer is a running BigQuery emulator with one project and
// one empty dataset.
type EmulatorContainer struct {
	testcontainers.Container
	Endpoint  string
	ProjectID string
	DatasetID string
}

func StartBigQueryEmulator(ctx context.Context) (*EmulatorContainer, error) {
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:         EmulatorImage,
			ImagePlatform: "linux/amd64",
			ExposedPorts:  []string{emulatorPort},
			Cmd: []string{
				"--project=" + EmulatorProject,
				"--dataset=" + EmulatorDataset,
			},
			WaitingFor: wait.ForListeningPort(emulatorPort).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start bigquery emulator: %w", err)
	}

	host, err := ctr.Host(ctx)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get emulator host: %w", err)
	}
	port, err := ctr.MappedPort(ctx, emulatorPort)
	if err != nil {
		ctr.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get emulator port: %w", err)
	}

	return &EmulatorContainer{
		Container: ctr,
		Endpoint:  fmt.Sprintf("http://%s:%s", host, port.Port()),
		ProjectID: EmulatorProject,
		DatasetID: EmulatorDataset,
	}, nil
}
