package playerdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the player store.
type Repository interface {
	// List returns every player in leaderboard order.
	List(ctx context.Context, db bun.IDB) ([]Player, error)
	Get(ctx context.Context, db bun.IDB, name string) (*Player, error)
	GetByLoginCode(ctx context.Context, db bun.IDB, code string) (*Player, error)
	// Upsert creates the player or refreshes its login code. Points are left untouched.
	Upsert(ctx context.Context, db bun.IDB, player *Player) error
	// SetPoints overwrites a player's points.
	SetPoints(ctx context.Context, db bun.IDB, name string, points int) error
	// CompareAndSetPoints writes next only while the stored value is still expected.
	CompareAndSetPoints(ctx context.Context, db bun.IDB, name string, expected, next int) error
	AppendHistory(ctx context.Context, db bun.IDB, rows []PointHistory) error
	ListHistory(ctx context.Context, db bun.IDB, player string) ([]PointHistory, error)
}
