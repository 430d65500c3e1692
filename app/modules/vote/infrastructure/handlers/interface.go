package votehandlers

import (
	"context"
	"net/http"
)

// Handlers serves the vote ledger over HTTP.
type Handlers interface {
	HandleHTTPQueryVotes(w http.ResponseWriter, r *http.Request)
	HandleHTTPSubmitVotes(w http.ResponseWriter, r *http.Request)
	HandleHTTPReplaceVotes(w http.ResponseWriter, r *http.Request)
	HandleHTTPEpisodeTotals(w http.ResponseWriter, r *http.Request)
	HandleHTTPEpisodeChart(w http.ResponseWriter, r *http.Request)
}

// VotingGate decides whether ballots may be written right now. It returns an
// error wrapping apperrors.ErrLocked while voting is closed.
type VotingGate interface {
	CheckVotingOpen(ctx context.Context) error
}
