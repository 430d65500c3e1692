package raceservice

import (
	"context"
	"sort"
	"strings"

	racedb "github.com/DKZomb0/Wieler/app/modules/race/infrastructure/repositories"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// FakeRaceRepo is an in-memory racedb.Repository.
type FakeRaceRepo struct {
	races []racedb.Race
	trace []string
	Err   error
}

func (f *FakeRaceRepo) Trace() []string { return f.trace }

func (f *FakeRaceRepo) Create(_ context.Context, _ bun.IDB, race *racedb.Race) error {
	f.trace = append(f.trace, "Create")
	if f.Err != nil {
		return f.Err
	}
	race.ID = uuid.New()
	f.races = append(f.races, *race)
	return nil
}

func (f *FakeRaceRepo) List(_ context.Context, _ bun.IDB, announcer, racer string) ([]racedb.Race, error) {
	f.trace = append(f.trace, "List")
	if f.Err != nil {
		return nil, f.Err
	}
	out := []racedb.Race{}
	for _, r := range f.races {
		if r.Announcer == announcer && (racer == "" || r.RacerName == racer) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RaceDate.After(out[j].RaceDate) })
	return out, nil
}

func (f *FakeRaceRepo) SearchRacers(_ context.Context, _ bun.IDB, announcer, term string) ([]string, error) {
	f.trace = append(f.trace, "SearchRacers")
	if f.Err != nil {
		return nil, f.Err
	}
	seen := map[string]bool{}
	out := []string{}
	for _, r := range f.races {
		if r.Announcer != announcer || seen[r.RacerName] {
			continue
		}
		if strings.Contains(strings.ToLower(r.RacerName), strings.ToLower(term)) {
			seen[r.RacerName] = true
			out = append(out, r.RacerName)
		}
	}
	sort.Strings(out)
	return out, nil
}

var _ racedb.Repository = (*FakeRaceRepo)(nil)
