package candidatehandlers

import (
	"context"

	candidateservice "github.com/DKZomb0/Wieler/app/modules/candidate/application"
	candidatedomain "github.com/DKZomb0/Wieler/app/modules/candidate/domain"
	candidatedb "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories"
)

// FakeService is a programmable candidateservice.Service.
type FakeService struct {
	ListCandidatesFunc  func(ctx context.Context) ([]candidatedb.Candidate, error)
	GetCandidateFunc    func(ctx context.Context, name string) (*candidatedb.Candidate, error)
	UpdateCandidateFunc func(ctx context.Context, name string, update candidatedomain.Update) (*candidateservice.UpdateResult, error)
}

func (f *FakeService) ListCandidates(ctx context.Context) ([]candidatedb.Candidate, error) {
	if f.ListCandidatesFunc != nil {
		return f.ListCandidatesFunc(ctx)
	}
	return []candidatedb.Candidate{}, nil
}

func (f *FakeService) GetCandidate(ctx context.Context, name string) (*candidatedb.Candidate, error) {
	if f.GetCandidateFunc != nil {
		return f.GetCandidateFunc(ctx, name)
	}
	return &candidatedb.Candidate{Name: name}, nil
}

func (f *FakeService) UpdateCandidate(ctx context.Context, name string, update candidatedomain.Update) (*candidateservice.UpdateResult, error) {
	if f.UpdateCandidateFunc != nil {
		return f.UpdateCandidateFunc(ctx, name, update)
	}
	return &candidateservice.UpdateResult{Candidate: candidatedb.Candidate{Name: name}}, nil
}

var _ candidateservice.Service = (*FakeService)(nil)
