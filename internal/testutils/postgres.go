package testutils

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/DKZomb0/Wieler/db/bundb"
	"github.com/docker/go-connections/nat"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
)

const (
	dbName    = "wieler_test"
	dbUser    = "wieler"
	dbPass    = "wieler"
	imageName = "postgres:16-alpine"
)

// TestDB is a migrated Postgres running in a container.
type TestDB struct {
	DB        *bun.DB
	DSN       string
	container *postgres.PostgresContainer
}

// SetupPostgresContainer starts a Postgres testcontainer and returns it with
// its connection string.
func SetupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pgContainer, err := postgres.Run(ctx,
		imageName,
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPass),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, host, port.Port(), dbName)
			}).WithStartupTimeout(45*time.Second),
		),
	)
	if err != nil {
		if pgContainer != nil {
			_ = pgContainer.Terminate(ctx)
		}
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to get postgres connection string: %w", err)
	}

	parsed, err := url.Parse(connStr)
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, "", fmt.Errorf("failed to parse connection string: %w", err)
	}
	query := parsed.Query()
	query.Set("sslmode", "disable")
	parsed.RawQuery = query.Encode()

	return pgContainer, parsed.String(), nil
}

// NewTestDB starts Postgres and applies every module migration.
func NewTestDB(ctx context.Context) (*TestDB, error) {
	container, dsn, err := SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}

	db := bundb.Open(dsn)
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &TestDB{DB: db, DSN: dsn, container: container}, nil
}

// Close closes the pool and terminates the container.
func (t *TestDB) Close(ctx context.Context) error {
	if err := t.DB.Close(); err != nil {
		return err
	}
	return t.container.Terminate(ctx)
}
