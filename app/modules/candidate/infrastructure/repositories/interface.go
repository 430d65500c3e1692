package candidatedb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the candidate store.
type Repository interface {
	// List returns active candidates first, then eliminated ones by latest week.
	List(ctx context.Context, db bun.IDB) ([]Candidate, error)
	Get(ctx context.Context, db bun.IDB, name string) (*Candidate, error)
	// GetForUpdate reads the candidate and locks its row until db's transaction ends.
	GetForUpdate(ctx context.Context, db bun.IDB, name string) (*Candidate, error)
	// UpdateStatus writes the eliminated week and mole flag.
	UpdateStatus(ctx context.Context, db bun.IDB, candidate *Candidate) error
	// Upsert creates the candidate or overwrites its flags.
	Upsert(ctx context.Context, db bun.IDB, candidate *Candidate) error
}
