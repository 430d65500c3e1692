package racedb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository is the race log. Every query is scoped to one announcer.
type Repository interface {
	Create(ctx context.Context, db bun.IDB, race *Race) error
	// List returns the announcer's races, newest race date first. A non-empty
	// racer narrows the list to that racer.
	List(ctx context.Context, db bun.IDB, announcer, racer string) ([]Race, error)
	// SearchRacers returns the distinct racer names containing term, ignoring case.
	SearchRacers(ctx context.Context, db bun.IDB, announcer, term string) ([]string, error)
}
