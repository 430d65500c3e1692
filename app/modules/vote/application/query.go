package voteservice

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	votedomain "github.com/DKZomb0/Wieler/app/modules/vote/domain"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

// QueryVotes returns the player's stored ballot for the episode.
func (s *VoteService) QueryVotes(ctx context.Context, player string, episode int) (*BallotView, error) {
	player = strings.TrimSpace(player)
	result, err := withTelemetry(s, ctx, "QueryVotes", player+"/"+strconv.Itoa(episode), func(ctx context.Context) (results.OperationResult[*BallotView, error], error) {
		if player == "" {
			return results.FailureResult[*BallotView, error](apperrors.NewValidation("player", "is required")), nil
		}
		if episode < 1 {
			return results.FailureResult[*BallotView, error](apperrors.NewValidation("episode", "must be at least 1")), nil
		}

		votes, err := s.repo.Query(ctx, nil, votedb.Filter{Player: player, Episode: episode})
		if err != nil {
			return results.OperationResult[*BallotView, error]{}, apperrors.NewStore("votes.query", err)
		}
		sortVotes(votes)
		view := newBallotView(player, episode, votes)
		return results.SuccessResult[*BallotView, error](&view), nil
	})
	return unwrap(result, err)
}

// AggregateEpisodeShares reduces every vote of the episode into per-candidate percentages.
func (s *VoteService) AggregateEpisodeShares(ctx context.Context, episode int) (map[string]int, error) {
	result, err := withTelemetry(s, ctx, "AggregateEpisodeShares", strconv.Itoa(episode), func(ctx context.Context) (results.OperationResult[map[string]int, error], error) {
		return s.aggregateSharesLogic(ctx, episode)
	})
	return unwrap(result, err)
}

func (s *VoteService) aggregateSharesLogic(ctx context.Context, episode int) (results.OperationResult[map[string]int, error], error) {
	if episode < 1 {
		return results.FailureResult[map[string]int, error](apperrors.NewValidation("episode", "must be at least 1")), nil
	}

	votes, err := s.repo.Query(ctx, nil, votedb.Filter{Episode: episode})
	if err != nil {
		return results.OperationResult[map[string]int, error]{}, apperrors.NewStore("votes.query", err)
	}

	allocations := make([]votedomain.Allocation, len(votes))
	for i, v := range votes {
		allocations[i] = votedomain.Allocation{Candidate: v.Candidate, Points: v.Points}
	}
	return results.SuccessResult[map[string]int, error](votedomain.Shares(allocations)), nil
}

func newBallotView(player string, episode int, votes []votedb.Vote) BallotView {
	inputs := make([]votedomain.VersionInput, len(votes))
	for i, v := range votes {
		inputs[i] = votedomain.VersionInput{ID: v.ID.String(), Candidate: v.Candidate, Points: v.Points}
	}
	return BallotView{
		Player:  player,
		Episode: episode,
		Votes:   votes,
		Version: votedomain.BallotVersion(inputs),
	}
}

func sortVotes(votes []votedb.Vote) {
	slices.SortFunc(votes, func(a, b votedb.Vote) int {
		if c := cmp.Compare(a.Episode, b.Episode); c != 0 {
			return c
		}
		return cmp.Compare(a.Candidate, b.Candidate)
	})
}

func voteIDs(votes []votedb.Vote) []string {
	ids := make([]string, len(votes))
	for i, v := range votes {
		ids[i] = v.ID.String()
	}
	return ids
}
