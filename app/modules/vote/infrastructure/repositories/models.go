package votedb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Vote is one point allocation from a player to a candidate in an episode.
// Records are immutable; a changed ballot deletes and recreates them.
type Vote struct {
	bun.BaseModel `bun:"table:votes,alias:v"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Player    string    `bun:"player,notnull" json:"player"`
	Candidate string    `bun:"candidate,notnull" json:"candidate"`
	Episode   int       `bun:"episode,notnull" json:"episode"`
	Points    int       `bun:"points,notnull" json:"points"`
	Timestamp time.Time `bun:"cast_at,nullzero,notnull,default:current_timestamp" json:"timestamp"`
}

var _ bun.BeforeInsertHook = (*Vote)(nil)

func (v *Vote) BeforeInsert(ctx context.Context, _ *bun.InsertQuery) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now().UTC()
	}
	return nil
}

// Filter selects votes. Zero-valued fields do not constrain the query.
type Filter struct {
	Player    string
	Candidate string
	Episode   int
}
