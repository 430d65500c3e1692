package playerdomain

import (
	"sort"
	"strings"
)

// Standing is a player's position on the leaderboard.
type Standing struct {
	Rank   int    `json:"rank"`
	Name   string `json:"name"`
	Points int    `json:"points"`
}

// Score is the input to Rank.
type Score struct {
	Name   string
	Points int
}

// Rank orders scores by points descending then name, and assigns standard
// competition ranks: tied players share a rank and the next rank is skipped.
func Rank(scores []Score) []Standing {
	sorted := make([]Score, len(scores))
	copy(sorted, scores)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Points != sorted[j].Points {
			return sorted[i].Points > sorted[j].Points
		}
		return sorted[i].Name < sorted[j].Name
	})

	out := make([]Standing, len(sorted))
	for i, s := range sorted {
		rank := i + 1
		if i > 0 && s.Points == sorted[i-1].Points {
			rank = out[i-1].Rank
		}
		out[i] = Standing{Rank: rank, Name: s.Name, Points: s.Points}
	}
	return out
}

// NormalizeLoginCode makes login codes case-insensitive.
func NormalizeLoginCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
