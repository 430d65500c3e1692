package playerservice

import (
	"context"
	"errors"
	"strings"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/results"
	"github.com/DKZomb0/Wieler/app/events"
	playerdomain "github.com/DKZomb0/Wieler/app/modules/player/domain"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

// ListPlayers returns the leaderboard.
func (s *PlayerService) ListPlayers(ctx context.Context) ([]playerdomain.Standing, error) {
	result, err := withTelemetry(s, ctx, "ListPlayers", "all", func(ctx context.Context) (results.OperationResult[[]playerdomain.Standing, error], error) {
		standings, err := s.leaderboard(ctx)
		if err != nil {
			return results.OperationResult[[]playerdomain.Standing, error]{}, err
		}
		return results.SuccessResult[[]playerdomain.Standing, error](standings), nil
	})
	return unwrap(result, err)
}

func (s *PlayerService) leaderboard(ctx context.Context) ([]playerdomain.Standing, error) {
	players, err := s.repo.List(ctx, nil)
	if err != nil {
		return nil, apperrors.NewStore("players.list", err)
	}
	scores := make([]playerdomain.Score, len(players))
	for i, p := range players {
		scores[i] = playerdomain.Score{Name: p.Name, Points: p.Points}
	}
	return playerdomain.Rank(scores), nil
}

// GetPlayer returns one player.
func (s *PlayerService) GetPlayer(ctx context.Context, name string) (*playerdb.Player, error) {
	result, err := withTelemetry(s, ctx, "GetPlayer", name, func(ctx context.Context) (results.OperationResult[*playerdb.Player, error], error) {
		name = strings.TrimSpace(name)
		if name == "" {
			return results.FailureResult[*playerdb.Player, error](apperrors.NewValidation("name", "is required")), nil
		}
		p, err := s.repo.Get(ctx, nil, name)
		if err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				return results.FailureResult[*playerdb.Player, error](apperrors.NewNotFound("player", name)), nil
			}
			return results.OperationResult[*playerdb.Player, error]{}, apperrors.NewStore("players.get", err)
		}
		return results.SuccessResult[*playerdb.Player, error](p), nil
	})
	return unwrap(result, err)
}

// Login matches the code case-insensitively against the stored login codes.
func (s *PlayerService) Login(ctx context.Context, code string) (*LoginResult, error) {
	result, err := withTelemetry(s, ctx, "Login", "code", func(ctx context.Context) (results.OperationResult[*LoginResult, error], error) {
		normalized := playerdomain.NormalizeLoginCode(code)
		if normalized == "" {
			return results.FailureResult[*LoginResult, error](apperrors.NewValidation("code", "is required")), nil
		}
		p, err := s.repo.GetByLoginCode(ctx, nil, normalized)
		if err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				return results.FailureResult[*LoginResult, error](ErrInvalidCode), nil
			}
			return results.OperationResult[*LoginResult, error]{}, apperrors.NewStore("players.get_by_login_code", err)
		}
		return results.SuccessResult[*LoginResult, error](&LoginResult{Name: p.Name}), nil
	})
	return unwrap(result, err)
}

// GetHistory returns the audited adjustments of a player, newest first.
func (s *PlayerService) GetHistory(ctx context.Context, name string) ([]playerdb.PointHistory, error) {
	result, err := withTelemetry(s, ctx, "GetHistory", name, func(ctx context.Context) (results.OperationResult[[]playerdb.PointHistory, error], error) {
		if _, err := s.repo.Get(ctx, nil, name); err != nil {
			if errors.Is(err, playerdb.ErrNotFound) {
				return results.FailureResult[[]playerdb.PointHistory, error](apperrors.NewNotFound("player", name)), nil
			}
			return results.OperationResult[[]playerdb.PointHistory, error]{}, apperrors.NewStore("players.get", err)
		}
		rows, err := s.repo.ListHistory(ctx, nil, name)
		if err != nil {
			return results.OperationResult[[]playerdb.PointHistory, error]{}, apperrors.NewStore("point_history.list", err)
		}
		return results.SuccessResult[[]playerdb.PointHistory, error](rows), nil
	})
	return unwrap(result, err)
}

// RecordAdjustments stores one history row per adjusted player. Rows already
// recorded for the run are skipped so redelivery is harmless.
func (s *PlayerService) RecordAdjustments(ctx context.Context, payload *events.ScoreRecalculatedPayloadV1) error {
	_, err := withTelemetry(s, ctx, "RecordAdjustments", payload.RunID, func(ctx context.Context) (results.OperationResult[int, error], error) {
		rows := make([]playerdb.PointHistory, 0, len(payload.Adjustments))
		recordedAt := payload.OccurredAt
		if recordedAt.IsZero() {
			recordedAt = s.now()
		}
		for _, adj := range payload.Adjustments {
			rows = append(rows, playerdb.PointHistory{
				RunID:      payload.RunID,
				Player:     adj.Player,
				Candidate:  payload.Candidate,
				Reason:     payload.Reason,
				Delta:      adj.Delta,
				NewTotal:   adj.NewTotal,
				RecordedAt: recordedAt,
			})
		}
		if err := s.repo.AppendHistory(ctx, nil, rows); err != nil {
			return results.OperationResult[int, error]{}, apperrors.NewStore("point_history.append", err)
		}
		return results.SuccessResult[int, error](len(rows)), nil
	})
	return err
}
