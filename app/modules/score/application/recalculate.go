package scoreservice

import (
	"context"
	"errors"
	"strings"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/DKZomb0/Wieler/app/eventbus"
	"github.com/DKZomb0/Wieler/app/events"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	scoredomain "github.com/DKZomb0/Wieler/app/modules/score/domain"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

// Recalculate loads the candidate's votes and all players, computes the
// adjustments and persists them one player at a time. A failure while
// persisting stops the run; players already written keep their new totals.
func (s *ScoreService) Recalculate(ctx context.Context, candidate string, isEliminated, isMol bool) (*Outcome, error) {
	result, err := withTelemetry(s, ctx, "Recalculate", candidate, func(ctx context.Context) (results.OperationResult[*Outcome, error], error) {
		return s.recalculateLogic(ctx, candidate, isEliminated, isMol)
	})
	return unwrap(result, err)
}

func (s *ScoreService) recalculateLogic(ctx context.Context, candidate string, isEliminated, isMol bool) (results.OperationResult[*Outcome, error], error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return results.FailureResult[*Outcome, error](apperrors.NewValidation("candidate", "is required")), nil
	}

	outcome := &Outcome{
		RunID:       s.newRunID(),
		Candidate:   candidate,
		Reason:      scoredomain.ReasonFor(isEliminated, isMol),
		Adjustments: []scoredomain.Adjustment{},
	}

	if outcome.Reason == scoredomain.ReasonNone {
		s.logger.InfoContext(ctx, "Candidate flags cleared, previous adjustments are kept",
			attr.ExtractCorrelationID(ctx),
			attr.String("candidate", candidate),
		)
		return results.SuccessResult[*Outcome, error](outcome), nil
	}

	votes, err := s.votes.Query(ctx, nil, votedb.Filter{Candidate: candidate})
	if err != nil {
		return results.OperationResult[*Outcome, error]{}, &apperrors.RecalculationError{
			Candidate: candidate,
			Step:      apperrors.StepLoadVotes,
			Err:       apperrors.NewStore("votes.query", err),
		}
	}

	players, err := s.players.List(ctx, nil)
	if err != nil {
		return results.OperationResult[*Outcome, error]{}, &apperrors.RecalculationError{
			Candidate: candidate,
			Step:      apperrors.StepLoadPlayers,
			Err:       apperrors.NewStore("players.list", err),
		}
	}

	current := make(map[string]int, len(players))
	for _, p := range players {
		current[p.Name] = p.Points
	}

	adjustments := scoredomain.Compute(current, toDomainVotes(votes), isEliminated, isMol)

	s.logger.InfoContext(ctx, "Scores computed",
		attr.ExtractCorrelationID(ctx),
		attr.String("candidate", candidate),
		attr.String("reason", string(outcome.Reason)),
		attr.Int("votes", len(votes)),
		attr.Int("players", len(players)),
		attr.Int("adjustments", len(adjustments)),
	)

	persisted, persistErr := s.persist(ctx, adjustments)
	outcome.Adjustments = persisted
	s.recordPersisted(ctx, outcome)

	if persistErr != nil {
		return results.OperationResult[*Outcome, error]{}, &apperrors.RecalculationError{
			Candidate: candidate,
			Step:      apperrors.StepPersistScores,
			Persisted: len(persisted),
			Err:       persistErr,
		}
	}

	return results.SuccessResult[*Outcome, error](outcome), nil
}

// persist writes the adjustments in order and stops at the first failure.
// Players removed since the load are skipped.
func (s *ScoreService) persist(ctx context.Context, adjustments []scoredomain.Adjustment) ([]scoredomain.Adjustment, error) {
	persisted := make([]scoredomain.Adjustment, 0, len(adjustments))
	for _, adj := range adjustments {
		applied, err := s.applyAdjustment(ctx, adj)
		if err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				s.logger.WarnContext(ctx, "Player disappeared before its score was written",
					attr.ExtractCorrelationID(ctx),
					attr.String("player", adj.Player),
				)
				continue
			}
			return persisted, err
		}
		persisted = append(persisted, applied)
	}
	return persisted, nil
}

// applyAdjustment adds the delta through compare-and-set. When another writer
// changed the player in between, the current total is re-read and the delta
// applied to it, up to maxWriteAttempts times.
func (s *ScoreService) applyAdjustment(ctx context.Context, adj scoredomain.Adjustment) (scoredomain.Adjustment, error) {
	expected := adj.Previous
	for attempt := 1; ; attempt++ {
		next := expected + adj.Delta
		err := s.players.CompareAndSetPoints(ctx, nil, adj.Player, expected, next)
		if err == nil {
			return scoredomain.Adjustment{Player: adj.Player, Previous: expected, Delta: adj.Delta, Next: next}, nil
		}
		if !errors.Is(err, playerdb.ErrPointsConflict) || attempt >= maxWriteAttempts {
			return adj, apperrors.NewStore("players.compare_and_set_points", err)
		}

		if s.metrics != nil {
			s.metrics.RecordCASRetry(ctx)
		}
		fresh, err := s.players.Get(ctx, nil, adj.Player)
		if err != nil {
			return adj, apperrors.NewStore("players.get", err)
		}
		expected = fresh.Points
	}
}

// recordPersisted reports metrics and publishes the adjustments that reached the store.
func (s *ScoreService) recordPersisted(ctx context.Context, outcome *Outcome) {
	if len(outcome.Adjustments) == 0 {
		return
	}

	payload := events.ScoreRecalculatedPayloadV1{
		RunID:       outcome.RunID,
		Candidate:   outcome.Candidate,
		Reason:      string(outcome.Reason),
		Adjustments: make([]events.ScoreAdjustmentV1, 0, len(outcome.Adjustments)),
		OccurredAt:  s.now(),
	}
	for _, adj := range outcome.Adjustments {
		if s.metrics != nil {
			s.metrics.RecordAdjustment(ctx, string(outcome.Reason), adj.Delta)
		}
		payload.Adjustments = append(payload.Adjustments, events.ScoreAdjustmentV1{
			Player:   adj.Player,
			Delta:    adj.Delta,
			NewTotal: adj.Next,
		})
	}
	if s.metrics != nil {
		s.metrics.RecordPlayersPersisted(ctx, len(outcome.Adjustments))
	}

	if s.publisher == nil {
		return
	}
	if err := eventbus.PublishJSON(ctx, s.publisher, events.ScoreRecalculatedV1, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish score recalculation",
			attr.ExtractCorrelationID(ctx),
			attr.String("run_id", outcome.RunID),
			attr.Error(err),
		)
	}
}

func toDomainVotes(votes []votedb.Vote) []scoredomain.Vote {
	out := make([]scoredomain.Vote, len(votes))
	for i, v := range votes {
		out[i] = scoredomain.Vote{Player: v.Player, Episode: v.Episode, Points: v.Points}
	}
	return out
}
