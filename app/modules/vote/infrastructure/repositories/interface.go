package votedb

import (
	"context"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Repository is the vote store. It offers predicate query, create and delete;
// there is no update, a changed vote is deleted and recreated.
type Repository interface {
	Query(ctx context.Context, db bun.IDB, filter Filter) ([]Vote, error)
	Create(ctx context.Context, db bun.IDB, vote *Vote) error
	Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error
}
