package candidatedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new candidate repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) List(ctx context.Context, db bun.IDB) ([]Candidate, error) {
	db = r.resolveDB(db)
	candidates := make([]Candidate, 0)
	err := db.NewSelect().
		Model(&candidates).
		OrderExpr("c.eliminated_week DESC NULLS FIRST").
		Order("c.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("candidatedb.List: %w", err)
	}
	return candidates, nil
}

func (r *Impl) Get(ctx context.Context, db bun.IDB, name string) (*Candidate, error) {
	return r.get(ctx, r.resolveDB(db), name, false)
}

func (r *Impl) GetForUpdate(ctx context.Context, db bun.IDB, name string) (*Candidate, error) {
	return r.get(ctx, r.resolveDB(db), name, true)
}

func (r *Impl) get(ctx context.Context, db bun.IDB, name string, lock bool) (*Candidate, error) {
	candidate := new(Candidate)
	q := db.NewSelect().Model(candidate).Where("c.name = ?", name)
	if lock {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("candidatedb.Get: %w", err)
	}
	return candidate, nil
}

func (r *Impl) UpdateStatus(ctx context.Context, db bun.IDB, candidate *Candidate) error {
	db = r.resolveDB(db)
	candidate.UpdatedAt = time.Now().UTC()
	res, err := db.NewUpdate().
		Model(candidate).
		Column("eliminated_week", "is_mol", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("candidatedb.UpdateStatus: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) Upsert(ctx context.Context, db bun.IDB, candidate *Candidate) error {
	db = r.resolveDB(db)
	candidate.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(candidate).
		On("CONFLICT (name) DO UPDATE").
		Set("eliminated_week = EXCLUDED.eliminated_week").
		Set("is_mol = EXCLUDED.is_mol").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("candidatedb.Upsert: %w", err)
	}
	return nil
}
