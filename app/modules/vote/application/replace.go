package voteservice

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/DKZomb0/Wieler/app/events"
	votedomain "github.com/DKZomb0/Wieler/app/modules/vote/domain"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"golang.org/x/sync/errgroup"
)

// ReplaceVotes deletes every stored record of the player's ballot and creates
// the new one. The store offers no multi-record transaction, so readers may
// observe the ballot half replaced.
func (s *VoteService) ReplaceVotes(ctx context.Context, ballot votedomain.Ballot, expectedVersion string) (*BallotResult, error) {
	result, err := withTelemetry(s, ctx, "ReplaceVotes", ballotIdentifier(ballot), func(ctx context.Context) (results.OperationResult[*BallotResult, error], error) {
		return s.replaceVotesLogic(ctx, ballot, expectedVersion)
	})
	return unwrap(result, err)
}

func (s *VoteService) replaceVotesLogic(ctx context.Context, ballot votedomain.Ballot, expectedVersion string) (results.OperationResult[*BallotResult, error], error) {
	if err := ballot.Validate(s.opts.Rules); err != nil {
		return results.FailureResult[*BallotResult, error](err), nil
	}
	ballot = ballot.Normalize()

	existing, err := s.repo.Query(ctx, nil, votedb.Filter{Player: ballot.Player, Episode: ballot.Episode})
	if err != nil {
		return results.OperationResult[*BallotResult, error]{}, apperrors.NewStore("votes.query", err)
	}

	if expectedVersion != "" {
		current := newBallotView(ballot.Player, ballot.Episode, existing)
		if current.Version != expectedVersion {
			return results.FailureResult[*BallotResult, error](ErrStaleBallot), nil
		}
	}

	removed, failed := s.deleteVotes(ctx, existing)

	// A candidate whose old record survived still holds the unique key; writing
	// its new record would only collide.
	created, err := s.createVotes(ctx, ballot, failed)
	if err != nil {
		if errors.Is(err, votedb.ErrDuplicateVote) {
			return results.FailureResult[*BallotResult, error](ErrStaleBallot), nil
		}
		return results.OperationResult[*BallotResult, error]{}, apperrors.NewStore("votes.create", err)
	}

	skipped := make([]string, 0, len(failed))
	for name := range failed {
		if _, scored := ballot.Scores[name]; scored {
			skipped = append(skipped, name)
		}
	}
	slices.Sort(skipped)

	if s.metrics != nil {
		s.metrics.RecordVotesWritten(ctx, "replace", len(created))
	}
	s.publish(ctx, events.VoteBallotReplacedV1, events.BallotPayloadV1{
		Player:     ballot.Player,
		Episode:    ballot.Episode,
		Scores:     ballot.Scores,
		VoteIDs:    voteIDs(created),
		Removed:    removed,
		OccurredAt: s.now(),
	})

	view := newBallotView(ballot.Player, ballot.Episode, created)
	return results.SuccessResult[*BallotResult, error](&BallotResult{
		BallotView: view,
		Removed:    removed,
		Skipped:    skipped,
	}), nil
}

// deleteVotes removes each record independently. A failed delete is logged and
// the remaining deletes continue; the returned set names the candidates whose
// record could not be removed. Records that are already gone count as removed.
func (s *VoteService) deleteVotes(ctx context.Context, votes []votedb.Vote) (int, map[string]struct{}) {
	var (
		mu      sync.Mutex
		removed int
		failed  = make(map[string]struct{})
		g       errgroup.Group
	)
	g.SetLimit(s.opts.MaxConcurrentWrites)

	for _, vote := range votes {
		g.Go(func() error {
			err := s.repo.Delete(ctx, nil, vote.ID)

			mu.Lock()
			defer mu.Unlock()

			if err != nil && !errors.Is(err, votedb.ErrNotFound) {
				failed[vote.Candidate] = struct{}{}
				s.logger.WarnContext(ctx, "Failed to delete vote during replace",
					attr.ExtractCorrelationID(ctx),
					attr.String("vote_id", vote.ID.String()),
					attr.String("player", vote.Player),
					attr.String("candidate", vote.Candidate),
					attr.Int("episode", vote.Episode),
					attr.Error(err),
				)
				if s.metrics != nil {
					s.metrics.RecordDeleteFailure(ctx)
				}
				return nil
			}
			removed++
			return nil
		})
	}
	_ = g.Wait()

	return removed, failed
}
