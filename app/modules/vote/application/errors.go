package voteservice

import (
	"fmt"

	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

var (
	// ErrBallotExists is returned by SubmitVotes when the player already voted for the episode.
	ErrBallotExists = fmt.Errorf("ballot already submitted for this episode, replace it instead: %w", apperrors.ErrConflict)

	// ErrStaleBallot is returned by ReplaceVotes when the stored ballot changed since it was read.
	ErrStaleBallot = fmt.Errorf("ballot changed since it was read: %w", apperrors.ErrPreconditionFailed)
)
