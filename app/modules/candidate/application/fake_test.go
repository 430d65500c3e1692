package candidateservice

import (
	"context"
	"sync"

	candidatedb "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories"
	scoredomain "github.com/DKZomb0/Wieler/app/modules/score/domain"
	scoreservice "github.com/DKZomb0/Wieler/app/modules/score/application"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// FakeCandidateRepo is an in-memory candidatedb.Repository with a call trace.
type FakeCandidateRepo struct {
	mu         sync.Mutex
	trace      []string
	candidates map[string]candidatedb.Candidate

	ListFunc         func(ctx context.Context, db bun.IDB) ([]candidatedb.Candidate, error)
	UpdateStatusFunc func(ctx context.Context, db bun.IDB, candidate *candidatedb.Candidate) error
}

func NewFakeCandidateRepo(seed ...candidatedb.Candidate) *FakeCandidateRepo {
	f := &FakeCandidateRepo{trace: []string{}, candidates: make(map[string]candidatedb.Candidate)}
	for _, c := range seed {
		f.candidates[c.Name] = c
	}
	return f
}

func (f *FakeCandidateRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeCandidateRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeCandidateRepo) Stored(name string) candidatedb.Candidate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.candidates[name]
}

func (f *FakeCandidateRepo) List(ctx context.Context, db bun.IDB) ([]candidatedb.Candidate, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]candidatedb.Candidate, 0, len(f.candidates))
	for _, c := range f.candidates {
		out = append(out, c)
	}
	return out, nil
}

func (f *FakeCandidateRepo) Get(_ context.Context, _ bun.IDB, name string) (*candidatedb.Candidate, error) {
	f.record("Get")
	return f.lookup(name)
}

func (f *FakeCandidateRepo) GetForUpdate(_ context.Context, _ bun.IDB, name string) (*candidatedb.Candidate, error) {
	f.record("GetForUpdate")
	return f.lookup(name)
}

func (f *FakeCandidateRepo) lookup(name string) (*candidatedb.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[name]
	if !ok {
		return nil, candidatedb.ErrNotFound
	}
	return &c, nil
}

func (f *FakeCandidateRepo) UpdateStatus(ctx context.Context, db bun.IDB, candidate *candidatedb.Candidate) error {
	f.record("UpdateStatus")
	if f.UpdateStatusFunc != nil {
		return f.UpdateStatusFunc(ctx, db, candidate)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates[candidate.Name] = *candidate
	return nil
}

func (f *FakeCandidateRepo) Upsert(_ context.Context, _ bun.IDB, candidate *candidatedb.Candidate) error {
	f.record("Upsert")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates[candidate.Name] = *candidate
	return nil
}

// recalculateCall captures one Recalculate invocation.
type recalculateCall struct {
	Candidate    string
	IsEliminated bool
	IsMol        bool
}

// FakeRecalculator records Recalculate calls.
type FakeRecalculator struct {
	Calls []recalculateCall
	Err   error
}

func (f *FakeRecalculator) Recalculate(_ context.Context, candidate string, isEliminated, isMol bool) (*scoreservice.Outcome, error) {
	f.Calls = append(f.Calls, recalculateCall{Candidate: candidate, IsEliminated: isEliminated, IsMol: isMol})
	if f.Err != nil {
		return nil, f.Err
	}
	return &scoreservice.Outcome{
		RunID:       "run",
		Candidate:   candidate,
		Reason:      scoredomain.ReasonFor(isEliminated, isMol),
		Adjustments: []scoredomain.Adjustment{},
	}, nil
}

// FakePublisher records published topics.
type FakePublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for range msgs {
		p.topics = append(p.topics, topic)
	}
	return nil
}

func (p *FakePublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}

var (
	_ candidatedb.Repository = (*FakeCandidateRepo)(nil)
	_ scoreservice.Service   = (*FakeRecalculator)(nil)
)
