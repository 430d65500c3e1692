package voteservice

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/DKZomb0/Wieler/app/events"
	votedomain "github.com/DKZomb0/Wieler/app/modules/vote/domain"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// SubmitVotes stores one vote record per scored candidate.
func (s *VoteService) SubmitVotes(ctx context.Context, ballot votedomain.Ballot) (*BallotResult, error) {
	result, err := withTelemetry(s, ctx, "SubmitVotes", ballotIdentifier(ballot), func(ctx context.Context) (results.OperationResult[*BallotResult, error], error) {
		return s.submitVotesLogic(ctx, ballot)
	})
	return unwrap(result, err)
}

func (s *VoteService) submitVotesLogic(ctx context.Context, ballot votedomain.Ballot) (results.OperationResult[*BallotResult, error], error) {
	if err := ballot.Validate(s.opts.Rules); err != nil {
		return results.FailureResult[*BallotResult, error](err), nil
	}
	ballot = ballot.Normalize()

	existing, err := s.repo.Query(ctx, nil, votedb.Filter{Player: ballot.Player, Episode: ballot.Episode})
	if err != nil {
		return results.OperationResult[*BallotResult, error]{}, apperrors.NewStore("votes.query", err)
	}
	if len(existing) > 0 {
		return results.FailureResult[*BallotResult, error](ErrBallotExists), nil
	}

	created, err := s.createVotes(ctx, ballot, nil)
	if err != nil {
		if errors.Is(err, votedb.ErrDuplicateVote) {
			return results.FailureResult[*BallotResult, error](ErrBallotExists), nil
		}
		return results.OperationResult[*BallotResult, error]{}, apperrors.NewStore("votes.create", err)
	}

	if s.metrics != nil {
		s.metrics.RecordVotesWritten(ctx, "submit", len(created))
	}
	s.publish(ctx, events.VoteBallotCastV1, events.BallotPayloadV1{
		Player:     ballot.Player,
		Episode:    ballot.Episode,
		Scores:     ballot.Scores,
		VoteIDs:    voteIDs(created),
		OccurredAt: s.now(),
	})

	return results.SuccessResult[*BallotResult, error](&BallotResult{
		BallotView: newBallotView(ballot.Player, ballot.Episode, created),
	}), nil
}

// createVotes writes one record per candidate not listed in skip, with at most
// MaxConcurrentWrites creates in flight. All creates are attempted; the first
// error is returned alongside the records that were written.
func (s *VoteService) createVotes(ctx context.Context, ballot votedomain.Ballot, skip map[string]struct{}) ([]votedb.Vote, error) {
	candidates := make([]string, 0, len(ballot.Scores))
	for name := range ballot.Scores {
		if _, skipped := skip[name]; skipped {
			continue
		}
		candidates = append(candidates, name)
	}
	slices.Sort(candidates)

	var (
		mu      sync.Mutex
		created = make([]votedb.Vote, 0, len(candidates))
		g       errgroup.Group
	)
	g.SetLimit(s.opts.MaxConcurrentWrites)

	now := s.now()
	for _, name := range candidates {
		vote := votedb.Vote{
			ID:        uuid.New(),
			Player:    ballot.Player,
			Candidate: name,
			Episode:   ballot.Episode,
			Points:    ballot.Scores[name],
			Timestamp: now,
		}
		g.Go(func() error {
			if err := s.repo.Create(ctx, nil, &vote); err != nil {
				return fmt.Errorf("candidate %q: %w", vote.Candidate, err)
			}
			mu.Lock()
			created = append(created, vote)
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	sortVotes(created)
	return created, err
}

func ballotIdentifier(b votedomain.Ballot) string {
	return fmt.Sprintf("%s/%d", b.Player, b.Episode)
}
