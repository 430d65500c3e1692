package votedb

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

// uniqueViolation is the Postgres SQLSTATE for unique constraint violations.
const uniqueViolation = "23505"

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new vote repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

// resolveDB returns the provided db handle, falling back to the repository's
// default connection if db is nil.
func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

// Query returns the votes matching filter ordered by episode then candidate.
func (r *Impl) Query(ctx context.Context, db bun.IDB, filter Filter) ([]Vote, error) {
	db = r.resolveDB(db)
	votes := make([]Vote, 0)

	q := db.NewSelect().Model(&votes)
	if filter.Player != "" {
		q = q.Where("v.player = ?", filter.Player)
	}
	if filter.Candidate != "" {
		q = q.Where("v.candidate = ?", filter.Candidate)
	}
	if filter.Episode > 0 {
		q = q.Where("v.episode = ?", filter.Episode)
	}

	if err := q.Order("v.episode ASC", "v.candidate ASC", "v.player ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("votedb.Query: %w", err)
	}
	return votes, nil
}

// Create inserts a vote. A second vote for the same (player, candidate, episode)
// returns ErrDuplicateVote.
func (r *Impl) Create(ctx context.Context, db bun.IDB, vote *Vote) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(vote).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		return fmt.Errorf("votedb.Create: %w", err)
	}
	return nil
}

// Delete removes a vote by id. Deleting an absent vote returns ErrNotFound.
func (r *Impl) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	db = r.resolveDB(db)
	res, err := db.NewDelete().
		Model((*Vote)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("votedb.Delete: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
