// Package events declares the topics and payloads exchanged between modules.
package events

import "time"

const (
	// VoteBallotCastV1 is published after a player's first ballot for an episode is stored.
	VoteBallotCastV1 = "vote.ballot.cast.v1"
	// VoteBallotReplacedV1 is published after a ballot was replaced.
	VoteBallotReplacedV1 = "vote.ballot.replaced.v1"
	// CandidateStatusChangedV1 is published after a candidate update changed its elimination or mole flag.
	CandidateStatusChangedV1 = "candidate.status.changed.v1"
	// ScoreRecalculatedV1 is published after a recalculation persisted its adjustments.
	ScoreRecalculatedV1 = "score.recalculated.v1"
	// PoisonTopic receives messages whose handlers kept failing.
	PoisonTopic = "wieler.poison.v1"
)

// BallotPayloadV1 describes a stored ballot.
type BallotPayloadV1 struct {
	Player     string         `json:"player"`
	Episode    int            `json:"episode"`
	Scores     map[string]int `json:"scores"`
	VoteIDs    []string       `json:"vote_ids"`
	Removed    int            `json:"removed,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// CandidateStatusChangedPayloadV1 describes a candidate flag transition.
type CandidateStatusChangedPayloadV1 struct {
	Candidate          string    `json:"candidate"`
	EliminatedWeek     *int      `json:"eliminated_week"`
	IsMol              bool      `json:"is_mol"`
	EliminationChanged bool      `json:"elimination_changed"`
	MolChanged         bool      `json:"mol_changed"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// ScoreAdjustmentV1 is one player's change from a recalculation run.
type ScoreAdjustmentV1 struct {
	Player   string `json:"player"`
	Delta    int    `json:"delta"`
	NewTotal int    `json:"new_total"`
}

// ScoreRecalculatedPayloadV1 lists the adjustments persisted by one run.
type ScoreRecalculatedPayloadV1 struct {
	RunID       string              `json:"run_id"`
	Candidate   string              `json:"candidate"`
	Reason      string              `json:"reason"`
	Adjustments []ScoreAdjustmentV1 `json:"adjustments"`
	OccurredAt  time.Time           `json:"occurred_at"`
}
