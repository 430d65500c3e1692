package raceservice

import (
	"context"
	"time"

	racedb "github.com/DKZomb0/Wieler/app/modules/race/infrastructure/repositories"
)

// Service is the announcer race log.
type Service interface {
	// SearchRacers returns the announcer's racer names containing term. A blank
	// term matches nothing.
	SearchRacers(ctx context.Context, announcer, term string) ([]string, error)
	ListRaces(ctx context.Context, announcer, racer string) ([]racedb.Race, error)
	RecordRace(ctx context.Context, announcer string, race NewRace) (*racedb.Race, error)
}

// NewRace is a result to log.
type NewRace struct {
	RacerName string
	RaceName  string
	Score     string
	RaceDate  time.Time
}
