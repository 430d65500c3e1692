package candidateservice

import (
	"context"
	"errors"
	"strings"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/DKZomb0/Wieler/app/eventbus"
	"github.com/DKZomb0/Wieler/app/events"
	candidatedomain "github.com/DKZomb0/Wieler/app/modules/candidate/domain"
	candidatedb "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"github.com/uptrace/bun"
)

// ListCandidates returns every candidate.
func (s *CandidateService) ListCandidates(ctx context.Context) ([]candidatedb.Candidate, error) {
	result, err := withTelemetry(s, ctx, "ListCandidates", "all", func(ctx context.Context) (results.OperationResult[[]candidatedb.Candidate, error], error) {
		candidates, err := s.repo.List(ctx, nil)
		if err != nil {
			return results.OperationResult[[]candidatedb.Candidate, error]{}, apperrors.NewStore("candidates.list", err)
		}
		return results.SuccessResult[[]candidatedb.Candidate, error](candidates), nil
	})
	return unwrap(result, err)
}

// GetCandidate returns one candidate.
func (s *CandidateService) GetCandidate(ctx context.Context, name string) (*candidatedb.Candidate, error) {
	result, err := withTelemetry(s, ctx, "GetCandidate", name, func(ctx context.Context) (results.OperationResult[*candidatedb.Candidate, error], error) {
		return s.getCandidateLogic(ctx, nil, name, false)
	})
	return unwrap(result, err)
}

func (s *CandidateService) getCandidateLogic(ctx context.Context, db bun.IDB, name string, lock bool) (results.OperationResult[*candidatedb.Candidate, error], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return results.FailureResult[*candidatedb.Candidate, error](apperrors.NewValidation("name", "is required")), nil
	}

	get := s.repo.Get
	if lock {
		get = s.repo.GetForUpdate
	}
	c, err := get(ctx, db, name)
	if err != nil {
		if errors.Is(err, candidatedb.ErrNotFound) {
			return results.FailureResult[*candidatedb.Candidate, error](apperrors.NewNotFound("candidate", name)), nil
		}
		return results.OperationResult[*candidatedb.Candidate, error]{}, apperrors.NewStore("candidates.get", err)
	}
	return results.SuccessResult[*candidatedb.Candidate, error](c), nil
}

// statusUpdate is what the transactional part of UpdateCandidate hands back.
type statusUpdate struct {
	candidate  *candidatedb.Candidate
	transition candidatedomain.Transition
}

// UpdateCandidate merges the update under a row lock so concurrent updates
// observe each other, then recalculates once the change is committed.
func (s *CandidateService) UpdateCandidate(ctx context.Context, name string, update candidatedomain.Update) (*UpdateResult, error) {
	result, err := withTelemetry(s, ctx, "UpdateCandidate", name, func(ctx context.Context) (results.OperationResult[*UpdateResult, error], error) {
		return s.updateCandidateLogic(ctx, name, update)
	})
	return unwrap(result, err)
}

func (s *CandidateService) updateCandidateLogic(ctx context.Context, name string, update candidatedomain.Update) (results.OperationResult[*UpdateResult, error], error) {
	if err := update.Validate(s.totalEpisodes); err != nil {
		return results.FailureResult[*UpdateResult, error](err), nil
	}

	stored, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*statusUpdate, error], error) {
		current, err := s.getCandidateLogic(ctx, db, name, true)
		if err != nil || current.IsFailure() {
			return results.OperationResult[*statusUpdate, error]{Failure: current.Failure}, err
		}

		c := *current.Success
		next, transition := candidatedomain.Apply(candidatedomain.Status{EliminatedWeek: c.EliminatedWeek, IsMol: c.IsMol}, update)
		c.EliminatedWeek = next.EliminatedWeek
		c.IsMol = next.IsMol

		if err := s.repo.UpdateStatus(ctx, db, &c); err != nil {
			return results.OperationResult[*statusUpdate, error]{}, apperrors.NewStore("candidates.update_status", err)
		}
		return results.SuccessResult[*statusUpdate, error](&statusUpdate{candidate: &c, transition: transition}), nil
	})
	if err != nil {
		return results.OperationResult[*UpdateResult, error]{}, err
	}
	if stored.IsFailure() {
		return results.FailureResult[*UpdateResult, error](*stored.Failure), nil
	}

	c, transition := stored.Success.candidate, stored.Success.transition
	res := &UpdateResult{Candidate: *c}

	s.logger.InfoContext(ctx, "Candidate status merged",
		attr.ExtractCorrelationID(ctx),
		attr.String("candidate", c.Name),
		attr.Any("elimination_changed", transition.EliminationChanged),
		attr.Any("mol_changed", transition.MolChanged),
	)

	if !transition.Changed() {
		return results.SuccessResult[*UpdateResult, error](res), nil
	}

	outcome, err := s.recalculator.Recalculate(ctx, c.Name, transition.IsEliminated, transition.IsMol)
	s.publishStatusChanged(ctx, c, transition)
	if err != nil {
		return results.OperationResult[*UpdateResult, error]{}, err
	}
	res.Recalculation = outcome

	return results.SuccessResult[*UpdateResult, error](res), nil
}

func (s *CandidateService) publishStatusChanged(ctx context.Context, c *candidatedb.Candidate, t candidatedomain.Transition) {
	if s.publisher == nil {
		return
	}
	err := eventbus.PublishJSON(ctx, s.publisher, events.CandidateStatusChangedV1, events.CandidateStatusChangedPayloadV1{
		Candidate:          c.Name,
		EliminatedWeek:     c.EliminatedWeek,
		IsMol:              c.IsMol,
		EliminationChanged: t.EliminationChanged,
		MolChanged:         t.MolChanged,
		OccurredAt:         s.now(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish candidate status change",
			attr.ExtractCorrelationID(ctx),
			attr.String("candidate", c.Name),
			attr.Error(err),
		)
	}
}
