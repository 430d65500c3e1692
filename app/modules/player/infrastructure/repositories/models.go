package playerdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Player is a participant with a cumulative score. Points change only through
// score recalculation.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	Name      string    `bun:"name,pk" json:"name"`
	Points    int       `bun:"points,notnull,default:0" json:"points"`
	LoginCode string    `bun:"login_code,nullzero,unique" json:"-"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

var _ bun.BeforeInsertHook = (*Player)(nil)

func (p *Player) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	return nil
}

// PointHistory is one audited score adjustment. Rows are keyed by
// (run_id, player) so a redelivered event does not duplicate them.
type PointHistory struct {
	bun.BaseModel `bun:"table:point_history,alias:ph"`

	ID         int64     `bun:"id,pk,autoincrement" json:"-"`
	RunID      string    `bun:"run_id,notnull" json:"runId"`
	Player     string    `bun:"player,notnull" json:"player"`
	Candidate  string    `bun:"candidate,notnull" json:"candidate"`
	Reason     string    `bun:"reason,notnull" json:"reason"`
	Delta      int       `bun:"delta,notnull" json:"delta"`
	NewTotal   int       `bun:"new_total,notnull" json:"newTotal"`
	RecordedAt time.Time `bun:"recorded_at,nullzero,notnull,default:current_timestamp" json:"recordedAt"`
}
