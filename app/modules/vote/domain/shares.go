package votedomain

// Allocation is the part of a vote record the share computation needs.
type Allocation struct {
	Candidate string
	Points    int
}

// Shares sums points per candidate and converts each sum into a percentage of
// the episode total, rounded half up per candidate. The percentages are not
// normalized and may total 99 or 101. A zero total yields an empty map.
func Shares(allocations []Allocation) map[string]int {
	sums := make(map[string]int)
	total := 0
	for _, a := range allocations {
		sums[a.Candidate] += a.Points
		total += a.Points
	}

	shares := make(map[string]int, len(sums))
	if total <= 0 {
		return shares
	}

	for candidate, sum := range sums {
		shares[candidate] = roundHalfUpPercent(sum, total)
	}
	return shares
}

// roundHalfUpPercent computes round(100*part/total) in integers for non-negative part.
func roundHalfUpPercent(part, total int) int {
	return (200*part + total) / (2 * total)
}
