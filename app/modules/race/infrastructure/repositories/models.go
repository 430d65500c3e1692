package racedb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Race is one result logged by an announcer.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:r"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Announcer string    `bun:"announcer,notnull" json:"announcer"`
	RacerName string    `bun:"racer_name,notnull" json:"racerName"`
	RaceName  string    `bun:"race_name,notnull" json:"raceName"`
	Score     string    `bun:"score,notnull" json:"score"`
	RaceDate  time.Time `bun:"race_date,type:date,notnull" json:"raceDate"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
}

var _ bun.BeforeInsertHook = (*Race)(nil)

func (r *Race) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	return nil
}
