package bundb

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	candidatedb "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	racedb "github.com/DKZomb0/Wieler/app/modules/race/infrastructure/repositories"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/config"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// DBService holds the connection pool and one repository per store.
type DBService struct {
	CandidateDB candidatedb.Repository
	PlayerDB    playerdb.Repository
	VoteDB      votedb.Repository
	RaceDB      racedb.Repository
	db          *bun.DB
}

// GetDB returns the underlying database connection pool.
func (s *DBService) GetDB() *bun.DB {
	return s.db
}

// Close closes the connection pool.
func (s *DBService) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewBunDBService connects to Postgres and builds the repositories.
func NewBunDBService(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DBService, error) {
	sqldb, err := pgConn(ctx, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.RegisterModel(
		(*candidatedb.Candidate)(nil),
		(*playerdb.Player)(nil),
		(*playerdb.PointHistory)(nil),
		(*votedb.Vote)(nil),
		(*racedb.Race)(nil),
	)

	if logger != nil {
		logger.InfoContext(ctx, "Database connection established")
	}

	return &DBService{
		CandidateDB: candidatedb.NewRepository(db),
		PlayerDB:    playerdb.NewRepository(db),
		VoteDB:      votedb.NewRepository(db),
		RaceDB:      racedb.NewRepository(db),
		db:          db,
	}, nil
}

// Open returns a bun handle without building repositories. Used by tooling.
func Open(dsn string) *bun.DB {
	return bun.NewDB(sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn))), pgdialect.New())
}

func pgConn(ctx context.Context, dsn string) (*sql.DB, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqldb.PingContext(pingCtx); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqldb, nil
}
