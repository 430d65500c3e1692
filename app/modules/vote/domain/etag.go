package votedomain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
)

// VersionInput is the part of a stored vote that identifies a ballot version.
type VersionInput struct {
	ID        string
	Candidate string
	Points    int
}

// BallotVersion returns a deterministic tag for the current set of vote records of a
// (player, episode) pair. Any delete or recreate changes the ids and with them the tag.
// An empty set has its own stable tag.
func BallotVersion(inputs []VersionInput) string {
	sorted := slices.Clone(inputs)
	slices.SortFunc(sorted, func(a, b VersionInput) int {
		return strings.Compare(a.ID, b.ID)
	})

	var sb strings.Builder
	for _, in := range sorted {
		fmt.Fprintf(&sb, "%s:%s:%d;", in.ID, in.Candidate, in.Points)
	}

	hash := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(hash[:16])
}
