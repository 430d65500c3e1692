package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	candidatedb "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories"
	playerdomain "github.com/DKZomb0/Wieler/app/modules/player/domain"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// seedFile is the roster loaded by `bun seed`.
type seedFile struct {
	Candidates []seedCandidate `yaml:"candidates"`
	Players    []seedPlayer    `yaml:"players"`
}

type seedCandidate struct {
	Name           string `yaml:"name"`
	EliminatedWeek *int   `yaml:"eliminated_week"`
	IsMol          bool   `yaml:"is_mol"`
}

// Points, when present, overwrites the stored total. Rosters carried over
// from an earlier season use it to restore standings.
type seedPlayer struct {
	Name      string `yaml:"name"`
	LoginCode string `yaml:"login_code"`
	Points    *int   `yaml:"points"`
}

func parseSeed(data []byte) (*seedFile, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	var errs []error
	seen := map[string]bool{}
	for i, c := range seed.Candidates {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("candidates[%d]: name is required", i))
			continue
		}
		if seen["c:"+name] {
			errs = append(errs, fmt.Errorf("candidates[%d]: duplicate name %q", i, name))
		}
		seen["c:"+name] = true
		seed.Candidates[i].Name = name
	}
	for i, p := range seed.Players {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("players[%d]: name is required", i))
			continue
		}
		if seen["p:"+name] {
			errs = append(errs, fmt.Errorf("players[%d]: duplicate name %q", i, name))
		}
		seen["p:"+name] = true
		seed.Players[i].Name = name
		seed.Players[i].LoginCode = playerdomain.NormalizeLoginCode(p.LoginCode)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &seed, nil
}

func applySeed(ctx context.Context, db *bun.DB, seed *seedFile) error {
	candidates := candidatedb.NewRepository(db)
	players := playerdb.NewRepository(db)

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return writeSeed(ctx, tx, candidates, players, seed)
	})
}

func writeSeed(ctx context.Context, db bun.IDB, candidates candidatedb.Repository, players playerdb.Repository, seed *seedFile) error {
	for _, c := range seed.Candidates {
		if err := candidates.Upsert(ctx, db, &candidatedb.Candidate{
			Name:           c.Name,
			EliminatedWeek: c.EliminatedWeek,
			IsMol:          c.IsMol,
		}); err != nil {
			return fmt.Errorf("seed candidate %q: %w", c.Name, err)
		}
	}
	for _, p := range seed.Players {
		if err := players.Upsert(ctx, db, &playerdb.Player{Name: p.Name, LoginCode: p.LoginCode}); err != nil {
			return fmt.Errorf("seed player %q: %w", p.Name, err)
		}
		if p.Points == nil {
			continue
		}
		if err := players.SetPoints(ctx, db, p.Name, *p.Points); err != nil {
			return fmt.Errorf("seed points for %q: %w", p.Name, err)
		}
	}
	return nil
}

func newSeedCommand(db *bun.DB) *cli.Command {
	return &cli.Command{
		Name:      "seed",
		Usage:     "upsert candidates and players from a YAML file",
		ArgsUsage: "<file>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return errors.New("seed file path is required")
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}
			seed, err := parseSeed(data)
			if err != nil {
				return err
			}
			if err := applySeed(c.Context, db, seed); err != nil {
				return err
			}
			fmt.Printf("Seeded %d candidates and %d players\n", len(seed.Candidates), len(seed.Players))
			return nil
		},
	}
}
