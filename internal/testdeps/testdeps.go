// Package testdeps starts the containers used by integration tests.
package testdeps

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcValKey "github.com/testcontainers/testcontainers-go/modules/valkey"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// PostgresqlDBImage is the PostgreSQL Image.
	PostgresqlDBImage = "postgres:latest"
	// ValKeyImage is the Valkey image.
	ValKeyImage = "docker.io/valkey/valkey:latest"

	DBUser     = "ezcord"
	DBPassword = "ezc0rd"
	DBName     = "ezcord_test"

	// OccurrenceValue is the number of occurrences to wait for in the log pattern.
	OccurrenceValue = 2
	// TimeoutInSeconds is the timeout duration for container startup in seconds.
	TimeoutInSeconds = 60
)

// Cleanup terminates a started container.
type Cleanup func(ctx context.Context)

// StartPostgres runs a PostgreSQL container and returns its postgres:// connection string.
func StartPostgres(ctx context.Context) (string, Cleanup, error) {
	container, err := tcPostgres.Run(ctx, PostgresqlDBImage,
		tcPostgres.WithDatabase(DBName),
		tcPostgres.WithUsername(DBUser),
		tcPostgres.WithPassword(DBPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(OccurrenceValue).
				WithStartupTimeout(TimeoutInSeconds*time.Second)),
	)
	if err != nil {
		return "", func(context.Context) {}, fmt.Errorf("failed to start postgres container: %w", err)
	}

	cleanup := func(ctx context.Context) {
		_ = container.Terminate(ctx)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		cleanup(ctx)
		return "", func(context.Context) {}, fmt.Errorf("failed to get connection string for postgres container: %w", err)
	}

	return dsn, cleanup, nil
}

// StartValkey runs a Valkey container and returns its redis:// connection string.
func StartValkey(ctx context.Context) (string, Cleanup, error) {
	container, err := tcValKey.Run(ctx, ValKeyImage)
	if err != nil {
		return "", func(context.Context) {}, fmt.Errorf("failed to start valkey container: %w", err)
	}

	cleanup := func(ctx context.Context) {
		_ = container.Terminate(ctx)
	}

	conn, err := container.ConnectionString(ctx)
	if err != nil {
		cleanup(ctx)
		return "", func(context.Context) {}, fmt.Errorf("failed to get connection string for valkey container: %w", err)
	}

	return conn, cleanup, nil
}
