package testutils

import (
	"fmt"
	"strings"
	"time"

	candidatedb "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	racedb "github.com/DKZomb0/Wieler/app/modules/race/infrastructure/repositories"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
)

// TestDataGenerator creates fixture rows for integration tests.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// NewTestDataGenerator creates a generator. A seed makes the output repeatable.
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	s := uint64(time.Now().UnixNano())
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(s), seed: s}
}

// Seed returns the seed in use so failing runs can be replayed.
func (g *TestDataGenerator) Seed() uint64 { return g.seed }

// uniqueNames returns count distinct first names.
func (g *TestDataGenerator) uniqueNames(count int) []string {
	seen := make(map[string]bool, count)
	names := make([]string, 0, count)
	for len(names) < count {
		name := g.faker.FirstName()
		if seen[name] {
			name = name + " " + g.faker.LetterN(3)
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// GenerateCandidates returns count active candidates.
func (g *TestDataGenerator) GenerateCandidates(count int) []candidatedb.Candidate {
	out := make([]candidatedb.Candidate, 0, count)
	for _, name := range g.uniqueNames(count) {
		out = append(out, candidatedb.Candidate{Name: name})
	}
	return out
}

// GeneratePlayers returns count players with distinct login codes and zero points.
func (g *TestDataGenerator) GeneratePlayers(count int) []playerdb.Player {
	out := make([]playerdb.Player, 0, count)
	for i, name := range g.uniqueNames(count) {
		out = append(out, playerdb.Player{
			Name:      name,
			LoginCode: fmt.Sprintf("%s%03d", strings.ToUpper(g.faker.LetterN(3)), i),
		})
	}
	return out
}

// GenerateBallot returns one episode's votes from player spreading 100 points
// over candidates.
func (g *TestDataGenerator) GenerateBallot(player string, episode int, candidates []string) []votedb.Vote {
	votes := make([]votedb.Vote, 0, len(candidates))
	remaining := 100
	for i, c := range candidates {
		points := remaining
		if i < len(candidates)-1 {
			points = g.faker.Number(0, remaining)
		}
		remaining -= points
		votes = append(votes, votedb.Vote{Player: player, Candidate: c, Episode: episode, Points: points})
	}
	return votes
}

// GenerateRaces returns count races for announcer.
func (g *TestDataGenerator) GenerateRaces(announcer string, count int) []racedb.Race {
	out := make([]racedb.Race, 0, count)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		out = append(out, racedb.Race{
			Announcer: announcer,
			RacerName: g.faker.LastName(),
			RaceName:  g.faker.City() + " Classic",
			Score:     g.faker.Numerify("#"),
			RaceDate:  start.AddDate(0, 0, g.faker.Number(0, 180)),
		})
	}
	return out
}
