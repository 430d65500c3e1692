package racedb

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new race repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, race *Race) error {
	db = r.resolveDB(db)
	if _, err := db.NewInsert().Model(race).Returning("*").Exec(ctx); err != nil {
		return fmt.Errorf("racedb.Create: %w", err)
	}
	return nil
}

func (r *Impl) List(ctx context.Context, db bun.IDB, announcer, racer string) ([]Race, error) {
	db = r.resolveDB(db)
	races := make([]Race, 0)

	q := db.NewSelect().Model(&races).Where("r.announcer = ?", announcer)
	if racer != "" {
		q = q.Where("r.racer_name = ?", racer)
	}
	if err := q.Order("r.race_date DESC", "r.created_at DESC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("racedb.List: %w", err)
	}
	return races, nil
}

func (r *Impl) SearchRacers(ctx context.Context, db bun.IDB, announcer, term string) ([]string, error) {
	db = r.resolveDB(db)
	names := make([]string, 0)

	err := db.NewSelect().
		Model((*Race)(nil)).
		ColumnExpr("DISTINCT r.racer_name").
		Where("r.announcer = ?", announcer).
		Where("r.racer_name ILIKE ?", "%"+likeEscaper.Replace(term)+"%").
		OrderExpr("r.racer_name ASC").
		Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("racedb.SearchRacers: %w", err)
	}
	return names, nil
}
