// Package testutil provides shared test utilities for schemadump
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

var suppressedLogger = log.New(io.Discard, "", 0)

// getPostgresVersion returns the PostgreSQL version to use for testing.
// It reads from the SCHEMADUMP_POSTGRES_VERSION environment variable,
// defaulting to "17" if not set.
func getPostgresVersion() string {
	if version := os.Getenv("SCHEMADUMP_POSTGRES_VERSION"); version != "" {
		return version
	}
	return "17"
}

// ContainerInfo holds PostgreSQL container connection details
type ContainerInfo struct {
	Container testcontainers.Container
	DSN       string
	User      string
	Password  string
	Conn      *sql.DB
}

// SetupPostgresContainer starts a PostgreSQL test container, skipping the test in -short mode
func SetupPostgresContainer(ctx context.Context, t *testing.T) *ContainerInfo {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	const (
		database = "testdb"
		username = "testuser"
		password = "testpass"
	)

	postgresContainer, err := postgres.Run(ctx,
		"postgres:"+getPostgresVersion()+"-alpine",
		postgres.WithDatabase(database),
		postgres.WithUsername(username),
		postgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
		testcontainers.WithLogger(suppressedLogger),
	)
	if err != nil {
		t.Fatalf("Failed to start container: %v", err)
	}

	testDSN, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("Failed to get connection string: %v", err)
	}

	conn, err := sql.Open("pgx", testDSN)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	ci := &ContainerInfo{
		Container: postgresContainer,
		DSN:       testDSN,
		User:      username,
		Password:  password,
		Conn:      conn,
	}
	t.Cleanup(func() { ci.Terminate(context.Background(), t) })
	return ci
}

// Exec runs setup SQL against the container, failing the test on error
func (ci *ContainerInfo) Exec(ctx context.Context, t *testing.T, sqlText string) {
	t.Helper()
	if _, err := ci.Conn.ExecContext(ctx, sqlText); err != nil {
		t.Fatalf("Failed to execute setup SQL: %v\n%s", err, sqlText)
	}
}

// Terminate cleans up the container and connection
func (ci *ContainerInfo) Terminate(ctx context.Context, t *testing.T) {
	ci.Conn.Close()
	if err := ci.Container.Terminate(ctx); err != nil {
		t.Logf("Failed to terminate container: %v", err)
	}
}
