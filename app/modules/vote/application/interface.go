package voteservice

import (
	"context"

	votedomain "github.com/DKZomb0/Wieler/app/modules/vote/domain"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
)

// Service is the vote ledger.
type Service interface {
	// SubmitVotes stores a player's first ballot for an episode.
	SubmitVotes(ctx context.Context, ballot votedomain.Ballot) (*BallotResult, error)
	// ReplaceVotes deletes the stored ballot and stores the new one. When
	// expectedVersion is non-empty it must match the stored ballot's version.
	ReplaceVotes(ctx context.Context, ballot votedomain.Ballot, expectedVersion string) (*BallotResult, error)
	// QueryVotes returns the stored ballot. An absent ballot is an empty view.
	QueryVotes(ctx context.Context, player string, episode int) (*BallotView, error)
	// AggregateEpisodeShares returns each candidate's share of the points cast in an episode.
	AggregateEpisodeShares(ctx context.Context, episode int) (map[string]int, error)
	// RenderSharesChart renders the episode shares as a PNG bar chart.
	RenderSharesChart(ctx context.Context, episode int) ([]byte, error)
}

// BallotView is a player's stored ballot for an episode.
type BallotView struct {
	Player  string        `json:"player"`
	Episode int           `json:"episode"`
	Votes   []votedb.Vote `json:"votes"`
	Version string        `json:"version"`
}

// BallotResult describes a stored ballot after submit or replace.
type BallotResult struct {
	BallotView
	// Removed counts the records deleted by a replace.
	Removed int `json:"removed"`
	// Skipped lists candidates whose old record could not be deleted; their old
	// record was kept and no new one was written.
	Skipped []string `json:"skipped,omitempty"`
}
