package playerdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new player repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) List(ctx context.Context, db bun.IDB) ([]Player, error) {
	db = r.resolveDB(db)
	players := make([]Player, 0)
	err := db.NewSelect().
		Model(&players).
		Order("p.points DESC", "p.name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("playerdb.List: %w", err)
	}
	return players, nil
}

func (r *Impl) Get(ctx context.Context, db bun.IDB, name string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().Model(player).Where("p.name = ?", name).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("playerdb.Get: %w", err)
	}
	return player, nil
}

func (r *Impl) GetByLoginCode(ctx context.Context, db bun.IDB, code string) (*Player, error) {
	db = r.resolveDB(db)
	player := new(Player)
	err := db.NewSelect().Model(player).Where("p.login_code = ?", code).Limit(1).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("playerdb.GetByLoginCode: %w", err)
	}
	return player, nil
}

func (r *Impl) Upsert(ctx context.Context, db bun.IDB, player *Player) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(player).
		On("CONFLICT (name) DO UPDATE").
		Set("login_code = EXCLUDED.login_code").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("playerdb.Upsert: %w", err)
	}
	return nil
}

func (r *Impl) SetPoints(ctx context.Context, db bun.IDB, name string, points int) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("points = ?", points).
		Where("name = ?", name).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("playerdb.SetPoints: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) CompareAndSetPoints(ctx context.Context, db bun.IDB, name string, expected, next int) error {
	db = r.resolveDB(db)
	res, err := db.NewUpdate().
		Model((*Player)(nil)).
		Set("points = ?", next).
		Where("name = ?", name).
		Where("points = ?", expected).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("playerdb.CompareAndSetPoints: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("playerdb.CompareAndSetPoints: %w", err)
	}
	if n == 0 {
		// Distinguish a lost race from a missing row.
		exists, err := db.NewSelect().Model((*Player)(nil)).Where("name = ?", name).Exists(ctx)
		if err != nil {
			return fmt.Errorf("playerdb.CompareAndSetPoints: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		return ErrPointsConflict
	}
	return nil
}

func (r *Impl) AppendHistory(ctx context.Context, db bun.IDB, rows []PointHistory) error {
	if len(rows) == 0 {
		return nil
	}
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(&rows).
		On("CONFLICT (run_id, player) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("playerdb.AppendHistory: %w", err)
	}
	return nil
}

func (r *Impl) ListHistory(ctx context.Context, db bun.IDB, player string) ([]PointHistory, error) {
	db = r.resolveDB(db)
	rows := make([]PointHistory, 0)
	err := db.NewSelect().
		Model(&rows).
		Where("ph.player = ?", player).
		Order("ph.recorded_at DESC", "ph.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("playerdb.ListHistory: %w", err)
	}
	return rows, nil
}
