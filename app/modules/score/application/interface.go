package scoreservice

import (
	"context"

	scoredomain "github.com/DKZomb0/Wieler/app/modules/score/domain"
)

// Service recalculates player scores after a candidate's flags changed.
type Service interface {
	// Recalculate applies the scoring rule for candidate to every player that
	// voted for it. It is not idempotent: callers invoke it once per actual
	// transition of the candidate's flags.
	Recalculate(ctx context.Context, candidate string, isEliminated, isMol bool) (*Outcome, error)
}

// Outcome describes the adjustments a run persisted.
type Outcome struct {
	RunID       string                   `json:"runId"`
	Candidate   string                   `json:"candidate"`
	Reason      scoredomain.Reason       `json:"reason"`
	Adjustments []scoredomain.Adjustment `json:"adjustments"`
}
