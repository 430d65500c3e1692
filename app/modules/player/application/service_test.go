package playerservice

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DKZomb0/Wieler/app/events"
	playerdomain "github.com/DKZomb0/Wieler/app/modules/player/domain"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/observability/metrics"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestService(repo playerdb.Repository) *PlayerService {
	return NewPlayerService(
		repo,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"),
	)
}

func TestPlayerService_ListPlayers(t *testing.T) {
	tests := []struct {
		name      string
		setupRepo func(*FakePlayerRepo)
		want      []playerdomain.Standing
		wantErr   bool
	}{
		{
			name: "ranks players",
			setupRepo: func(r *FakePlayerRepo) {
				r.ListFunc = func(context.Context, bun.IDB) ([]playerdb.Player, error) {
					return []playerdb.Player{
						{Name: "Sanne", Points: 25},
						{Name: "Pieter", Points: 50},
						{Name: "Anna", Points: 25},
					}, nil
				}
			},
			want: []playerdomain.Standing{
				{Rank: 1, Name: "Pieter", Points: 50},
				{Rank: 2, Name: "Anna", Points: 25},
				{Rank: 2, Name: "Sanne", Points: 25},
			},
		},
		{
			name: "store failure",
			setupRepo: func(r *FakePlayerRepo) {
				r.ListFunc = func(context.Context, bun.IDB) ([]playerdb.Player, error) {
					return nil, errors.New("db down")
				}
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakePlayerRepo()
			tt.setupRepo(repo)

			got, err := newTestService(repo).ListPlayers(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsStore(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlayerService_Login(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		setupRepo func(*FakePlayerRepo)
		wantName  string
		wantErr   func(t *testing.T, err error)
	}{
		{
			name: "matches uppercased code",
			code: " mol42 ",
			setupRepo: func(r *FakePlayerRepo) {
				r.GetByLoginCodeFunc = func(_ context.Context, _ bun.IDB, code string) (*playerdb.Player, error) {
					if code != "MOL42" {
						return nil, playerdb.ErrNotFound
					}
					return &playerdb.Player{Name: "Sanne", LoginCode: "MOL42"}, nil
				}
			},
			wantName: "Sanne",
		},
		{
			name: "empty code",
			code: "   ",
			wantErr: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsValidation(err))
			},
		},
		{
			name: "unknown code",
			code: "nope",
			wantErr: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ErrInvalidCode)
				assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
			},
		},
		{
			name: "store failure",
			code: "abc",
			setupRepo: func(r *FakePlayerRepo) {
				r.GetByLoginCodeFunc = func(context.Context, bun.IDB, string) (*playerdb.Player, error) {
					return nil, errors.New("timeout")
				}
			},
			wantErr: func(t *testing.T, err error) {
				assert.True(t, apperrors.IsStore(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakePlayerRepo()
			if tt.setupRepo != nil {
				tt.setupRepo(repo)
			}

			res, err := newTestService(repo).Login(context.Background(), tt.code)
			if tt.wantErr != nil {
				require.Error(t, err)
				tt.wantErr(t, err)
				assert.Nil(t, res)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, res.Name)
		})
	}
}

func TestPlayerService_LoginValidationSkipsStore(t *testing.T) {
	repo := NewFakePlayerRepo()
	_, err := newTestService(repo).Login(context.Background(), "")
	require.Error(t, err)
	assert.Empty(t, repo.Trace())
}

func TestPlayerService_GetPlayerNotFound(t *testing.T) {
	_, err := newTestService(NewFakePlayerRepo()).GetPlayer(context.Background(), "Ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestPlayerService_GetHistory(t *testing.T) {
	repo := NewFakePlayerRepo()
	repo.GetFunc = func(_ context.Context, _ bun.IDB, name string) (*playerdb.Player, error) {
		return &playerdb.Player{Name: name, Points: 20}, nil
	}
	repo.ListHistoryFunc = func(_ context.Context, _ bun.IDB, player string) ([]playerdb.PointHistory, error) {
		return []playerdb.PointHistory{{RunID: "r1", Player: player, Candidate: "Jan", Reason: "mole", Delta: 20, NewTotal: 20}}, nil
	}

	rows, err := newTestService(repo).GetHistory(context.Background(), "Sanne")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 20, rows[0].Delta)
	assert.Equal(t, []string{"Get", "ListHistory"}, repo.Trace())
}

func TestPlayerService_RecordAdjustments(t *testing.T) {
	var stored []playerdb.PointHistory
	repo := NewFakePlayerRepo()
	repo.AppendHistoryFunc = func(_ context.Context, _ bun.IDB, rows []playerdb.PointHistory) error {
		stored = rows
		return nil
	}
	occurred := time.Date(2025, 4, 2, 21, 0, 0, 0, time.UTC)

	err := newTestService(repo).RecordAdjustments(context.Background(), &events.ScoreRecalculatedPayloadV1{
		RunID:     "run-1",
		Candidate: "Jan",
		Reason:    "elimination",
		Adjustments: []events.ScoreAdjustmentV1{
			{Player: "Sanne", Delta: -20, NewTotal: 5},
			{Player: "Pieter", Delta: -10, NewTotal: 0},
		},
		OccurredAt: occurred,
	})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, row := range stored {
		assert.Equal(t, "run-1", row.RunID)
		assert.Equal(t, "Jan", row.Candidate)
		assert.Equal(t, "elimination", row.Reason)
		assert.Equal(t, occurred, row.RecordedAt)
	}
	assert.Equal(t, "Sanne", stored[0].Player)
	assert.Equal(t, -20, stored[0].Delta)

	repo.AppendHistoryFunc = func(context.Context, bun.IDB, []playerdb.PointHistory) error {
		return errors.New("insert failed")
	}
	err = newTestService(repo).RecordAdjustments(context.Background(), &events.ScoreRecalculatedPayloadV1{RunID: "run-2"})
	require.Error(t, err)
	assert.True(t, apperrors.IsStore(err))
}

func TestPlayerService_ExportLeaderboard(t *testing.T) {
	repo := NewFakePlayerRepo()
	repo.ListFunc = func(context.Context, bun.IDB) ([]playerdb.Player, error) {
		return []playerdb.Player{{Name: "Anna", Points: 5}, {Name: "Kees", Points: 45}}, nil
	}

	data, err := newTestService(repo).ExportLeaderboard(context.Background())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(LeaderboardSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Rank", "Player", "Points"},
		{"1", "Kees", "45"},
		{"2", "Anna", "5"},
	}, rows)
}
