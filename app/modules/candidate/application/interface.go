package candidateservice

import (
	"context"

	candidatedomain "github.com/DKZomb0/Wieler/app/modules/candidate/domain"
	candidatedb "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories"
	scoreservice "github.com/DKZomb0/Wieler/app/modules/score/application"
)

// Service manages candidates and triggers score recalculation on flag transitions.
type Service interface {
	ListCandidates(ctx context.Context) ([]candidatedb.Candidate, error)
	GetCandidate(ctx context.Context, name string) (*candidatedb.Candidate, error)
	// UpdateCandidate merges the update into the stored candidate. When the
	// eliminated week or the mole flag actually changed, scores are
	// recalculated exactly once.
	UpdateCandidate(ctx context.Context, name string, update candidatedomain.Update) (*UpdateResult, error)
}

// UpdateResult is the merged candidate and the recalculation it caused, if any.
type UpdateResult struct {
	candidatedb.Candidate
	Recalculation *scoreservice.Outcome `json:"recalculation,omitempty"`
}
