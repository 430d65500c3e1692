package scoredomain

import "sort"

// Reason names the rule a recalculation applied.
type Reason string

const (
	// ReasonMole credits every vote cast for the candidate.
	ReasonMole Reason = "mole"
	// ReasonElimination debits each player's latest vote for the candidate.
	ReasonElimination Reason = "elimination"
	// ReasonNone is a revert; no adjustment is made.
	ReasonNone Reason = "none"
)

// ReasonFor picks the rule for the target flags. The mole flag wins when both are set.
func ReasonFor(isEliminated, isMol bool) Reason {
	switch {
	case isMol:
		return ReasonMole
	case isEliminated:
		return ReasonElimination
	default:
		return ReasonNone
	}
}

// Vote is the part of a vote record the scoring rule reads.
type Vote struct {
	Player  string
	Episode int
	Points  int
}

// Adjustment is one player's score change.
type Adjustment struct {
	Player   string `json:"player"`
	Previous int    `json:"previous"`
	Delta    int    `json:"delta"`
	Next     int    `json:"next"`
}

// Compute applies the scoring rule for one candidate's votes to the current
// player totals. Votes of players missing from current are ignored. Only
// players whose total changes are returned, ordered by name.
func Compute(current map[string]int, votes []Vote, isEliminated, isMol bool) []Adjustment {
	deltas := make(map[string]int)

	switch ReasonFor(isEliminated, isMol) {
	case ReasonMole:
		for _, v := range votes {
			if _, ok := current[v.Player]; !ok {
				continue
			}
			deltas[v.Player] += v.Points
		}
	case ReasonElimination:
		for player, v := range LatestVotes(votes) {
			if _, ok := current[player]; !ok {
				continue
			}
			deltas[player] -= v.Points
		}
	}

	out := make([]Adjustment, 0, len(deltas))
	for player, delta := range deltas {
		if delta == 0 {
			continue
		}
		prev := current[player]
		out = append(out, Adjustment{Player: player, Previous: prev, Delta: delta, Next: prev + delta})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Player < out[j].Player })
	return out
}

// LatestVotes returns each player's vote with the highest episode. On equal
// episodes the first vote seen is kept; the ledger's uniqueness on
// (player, candidate, episode) keeps that case out of real data.
func LatestVotes(votes []Vote) map[string]Vote {
	latest := make(map[string]Vote)
	for _, v := range votes {
		cur, ok := latest[v.Player]
		if !ok || v.Episode > cur.Episode {
			latest[v.Player] = v
		}
	}
	return latest
}
