package votehandlers

import (
	"context"

	voteservice "github.com/DKZomb0/Wieler/app/modules/vote/application"
	votedomain "github.com/DKZomb0/Wieler/app/modules/vote/domain"
)

// FakeService is a programmable fake for voteservice.Service.
type FakeService struct {
	SubmitVotesFunc            func(ctx context.Context, ballot votedomain.Ballot) (*voteservice.BallotResult, error)
	ReplaceVotesFunc           func(ctx context.Context, ballot votedomain.Ballot, expectedVersion string) (*voteservice.BallotResult, error)
	QueryVotesFunc             func(ctx context.Context, player string, episode int) (*voteservice.BallotView, error)
	AggregateEpisodeSharesFunc func(ctx context.Context, episode int) (map[string]int, error)
	RenderSharesChartFunc      func(ctx context.Context, episode int) ([]byte, error)
}

func (f *FakeService) SubmitVotes(ctx context.Context, ballot votedomain.Ballot) (*voteservice.BallotResult, error) {
	if f.SubmitVotesFunc != nil {
		return f.SubmitVotesFunc(ctx, ballot)
	}
	return &voteservice.BallotResult{}, nil
}

func (f *FakeService) ReplaceVotes(ctx context.Context, ballot votedomain.Ballot, expectedVersion string) (*voteservice.BallotResult, error) {
	if f.ReplaceVotesFunc != nil {
		return f.ReplaceVotesFunc(ctx, ballot, expectedVersion)
	}
	return &voteservice.BallotResult{}, nil
}

func (f *FakeService) QueryVotes(ctx context.Context, player string, episode int) (*voteservice.BallotView, error) {
	if f.QueryVotesFunc != nil {
		return f.QueryVotesFunc(ctx, player, episode)
	}
	return &voteservice.BallotView{Player: player, Episode: episode}, nil
}

func (f *FakeService) AggregateEpisodeShares(ctx context.Context, episode int) (map[string]int, error) {
	if f.AggregateEpisodeSharesFunc != nil {
		return f.AggregateEpisodeSharesFunc(ctx, episode)
	}
	return map[string]int{}, nil
}

func (f *FakeService) RenderSharesChart(ctx context.Context, episode int) ([]byte, error) {
	if f.RenderSharesChartFunc != nil {
		return f.RenderSharesChartFunc(ctx, episode)
	}
	return nil, nil
}

// FakeGate is a programmable VotingGate.
type FakeGate struct {
	Err error
}

func (g *FakeGate) CheckVotingOpen(context.Context) error { return g.Err }

var (
	_ voteservice.Service = (*FakeService)(nil)
	_ VotingGate          = (*FakeGate)(nil)
)
