package voteservice

import (
	"context"
	"sync"

	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake Vote Repo
// ------------------------

type FakeVoteRepo struct {
	mu    sync.Mutex
	trace []string

	QueryFunc  func(ctx context.Context, db bun.IDB, filter votedb.Filter) ([]votedb.Vote, error)
	CreateFunc func(ctx context.Context, db bun.IDB, vote *votedb.Vote) error
	DeleteFunc func(ctx context.Context, db bun.IDB, id uuid.UUID) error
}

func NewFakeVoteRepo() *FakeVoteRepo {
	return &FakeVoteRepo{trace: []string{}}
}

func (f *FakeVoteRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakeVoteRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeVoteRepo) Query(ctx context.Context, db bun.IDB, filter votedb.Filter) ([]votedb.Vote, error) {
	f.record("Query")
	if f.QueryFunc != nil {
		return f.QueryFunc(ctx, db, filter)
	}
	return []votedb.Vote{}, nil
}

func (f *FakeVoteRepo) Create(ctx context.Context, db bun.IDB, vote *votedb.Vote) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, db, vote)
	}
	return nil
}

func (f *FakeVoteRepo) Delete(ctx context.Context, db bun.IDB, id uuid.UUID) error {
	f.record("Delete")
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, db, id)
	}
	return nil
}

var _ votedb.Repository = (*FakeVoteRepo)(nil)

// ------------------------
// In-memory vote store
// ------------------------

// memoryVotes backs a FakeVoteRepo with a map that enforces the
// (player, candidate, episode) uniqueness the real table has.
type memoryVotes struct {
	mu    sync.Mutex
	votes map[uuid.UUID]votedb.Vote
}

func newMemoryVotes(f *FakeVoteRepo, seed ...votedb.Vote) *memoryVotes {
	m := &memoryVotes{votes: make(map[uuid.UUID]votedb.Vote)}
	for _, v := range seed {
		m.votes[v.ID] = v
	}

	f.QueryFunc = func(ctx context.Context, db bun.IDB, filter votedb.Filter) ([]votedb.Vote, error) {
		return m.query(filter), nil
	}
	f.CreateFunc = func(ctx context.Context, db bun.IDB, vote *votedb.Vote) error {
		return m.create(*vote)
	}
	f.DeleteFunc = func(ctx context.Context, db bun.IDB, id uuid.UUID) error {
		return m.delete(id)
	}
	return m
}

func (m *memoryVotes) query(filter votedb.Filter) []votedb.Vote {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []votedb.Vote{}
	for _, v := range m.votes {
		if filter.Player != "" && v.Player != filter.Player {
			continue
		}
		if filter.Candidate != "" && v.Candidate != filter.Candidate {
			continue
		}
		if filter.Episode > 0 && v.Episode != filter.Episode {
			continue
		}
		out = append(out, v)
	}
	return out
}

func (m *memoryVotes) create(vote votedb.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.votes {
		if v.Player == vote.Player && v.Candidate == vote.Candidate && v.Episode == vote.Episode {
			return votedb.ErrDuplicateVote
		}
	}
	m.votes[vote.ID] = vote
	return nil
}

func (m *memoryVotes) delete(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.votes[id]; !ok {
		return votedb.ErrNotFound
	}
	delete(m.votes, id)
	return nil
}

func (m *memoryVotes) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.votes)
}

// ------------------------
// Fake Publisher
// ------------------------

type FakePublisher struct {
	mu     sync.Mutex
	topics []string
	Err    error
}

func (p *FakePublisher) Publish(topic string, messages ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	return p.Err
}

func (p *FakePublisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.topics...)
}
