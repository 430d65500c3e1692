package votedomain

import (
	"fmt"
	"strings"

	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

const (
	// MaxPoints is the most a player can put on one candidate.
	MaxPoints = 100
	// FullAllocation is the total a finalized ballot distributes.
	FullAllocation = 100
)

// Ballot is one player's allocation of points across candidates for an episode.
type Ballot struct {
	Player  string
	Episode int
	Scores  map[string]int
}

// Rules configure ballot validation.
type Rules struct {
	TotalEpisodes         int
	RequireFullAllocation bool
}

// Normalize trims player and candidate names. Call it on a validated ballot.
func (b Ballot) Normalize() Ballot {
	out := Ballot{
		Player:  strings.TrimSpace(b.Player),
		Episode: b.Episode,
		Scores:  make(map[string]int, len(b.Scores)),
	}
	for name, points := range b.Scores {
		out.Scores[strings.TrimSpace(name)] = points
	}
	return out
}

// Validate checks the ballot against rules. Errors are ValidationErrors.
func (b Ballot) Validate(rules Rules) error {
	if strings.TrimSpace(b.Player) == "" {
		return apperrors.NewValidation("player", "is required")
	}
	if len(b.Scores) == 0 {
		return apperrors.NewValidation("scores", "is required")
	}
	if b.Episode < 1 {
		return apperrors.NewValidation("episode", "must be at least 1")
	}
	if rules.TotalEpisodes > 0 && b.Episode > rules.TotalEpisodes {
		return apperrors.NewValidation("episode", fmt.Sprintf("must be at most %d", rules.TotalEpisodes))
	}

	seen := make(map[string]struct{}, len(b.Scores))
	total := 0
	for name, points := range b.Scores {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return apperrors.NewValidation("scores", "contains an empty candidate name")
		}
		if _, dup := seen[trimmed]; dup {
			return apperrors.NewValidation("scores", fmt.Sprintf("names candidate %q twice", trimmed))
		}
		seen[trimmed] = struct{}{}

		if points < 0 || points > MaxPoints {
			return apperrors.NewValidation("scores", fmt.Sprintf("points for %q must be between 0 and %d", trimmed, MaxPoints))
		}
		total += points
	}

	if rules.RequireFullAllocation && total != FullAllocation {
		return apperrors.NewValidation("scores", fmt.Sprintf("must total %d, got %d", FullAllocation, total))
	}
	return nil
}
