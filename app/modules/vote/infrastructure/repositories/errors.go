package votedb

import (
	"errors"
	"fmt"

	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested vote does not exist.
	ErrNotFound = errors.New("vote not found")

	// ErrDuplicateVote indicates a vote for the same (player, candidate, episode) already exists.
	ErrDuplicateVote = fmt.Errorf("vote already recorded for player, candidate and episode: %w", apperrors.ErrConflict)
)
