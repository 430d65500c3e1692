package playerhandlers

import (
	"context"

	"github.com/DKZomb0/Wieler/app/events"
	playerservice "github.com/DKZomb0/Wieler/app/modules/player/application"
	playerdomain "github.com/DKZomb0/Wieler/app/modules/player/domain"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
)

// FakeService is a programmable fake for playerservice.Service.
type FakeService struct {
	ListPlayersFunc       func(ctx context.Context) ([]playerdomain.Standing, error)
	GetPlayerFunc         func(ctx context.Context, name string) (*playerdb.Player, error)
	LoginFunc             func(ctx context.Context, code string) (*playerservice.LoginResult, error)
	ExportLeaderboardFunc func(ctx context.Context) ([]byte, error)
	GetHistoryFunc        func(ctx context.Context, name string) ([]playerdb.PointHistory, error)
	RecordAdjustmentsFunc func(ctx context.Context, payload *events.ScoreRecalculatedPayloadV1) error
}

func (f *FakeService) ListPlayers(ctx context.Context) ([]playerdomain.Standing, error) {
	if f.ListPlayersFunc != nil {
		return f.ListPlayersFunc(ctx)
	}
	return []playerdomain.Standing{}, nil
}

func (f *FakeService) GetPlayer(ctx context.Context, name string) (*playerdb.Player, error) {
	if f.GetPlayerFunc != nil {
		return f.GetPlayerFunc(ctx, name)
	}
	return &playerdb.Player{Name: name}, nil
}

func (f *FakeService) Login(ctx context.Context, code string) (*playerservice.LoginResult, error) {
	if f.LoginFunc != nil {
		return f.LoginFunc(ctx, code)
	}
	return &playerservice.LoginResult{}, nil
}

func (f *FakeService) ExportLeaderboard(ctx context.Context) ([]byte, error) {
	if f.ExportLeaderboardFunc != nil {
		return f.ExportLeaderboardFunc(ctx)
	}
	return nil, nil
}

func (f *FakeService) GetHistory(ctx context.Context, name string) ([]playerdb.PointHistory, error) {
	if f.GetHistoryFunc != nil {
		return f.GetHistoryFunc(ctx, name)
	}
	return []playerdb.PointHistory{}, nil
}

func (f *FakeService) RecordAdjustments(ctx context.Context, payload *events.ScoreRecalculatedPayloadV1) error {
	if f.RecordAdjustmentsFunc != nil {
		return f.RecordAdjustmentsFunc(ctx, payload)
	}
	return nil
}

var _ playerservice.Service = (*FakeService)(nil)
