package scoreservice

import (
	"context"
	"sort"
	"sync"

	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"
)

// FakeVoteReader returns a fixed vote set filtered by candidate.
type FakeVoteReader struct {
	Votes []votedb.Vote
	Err   error
	Calls int
}

func (f *FakeVoteReader) Query(_ context.Context, _ bun.IDB, filter votedb.Filter) ([]votedb.Vote, error) {
	f.Calls++
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]votedb.Vote, 0)
	for _, v := range f.Votes {
		if filter.Candidate != "" && v.Candidate != filter.Candidate {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// FakePlayerRepo is an in-memory playerdb.Repository with a call trace and
// programmable overrides.
type FakePlayerRepo struct {
	mu     sync.Mutex
	trace  []string
	points map[string]int

	ListFunc                func(ctx context.Context, db bun.IDB) ([]playerdb.Player, error)
	GetFunc                 func(ctx context.Context, db bun.IDB, name string) (*playerdb.Player, error)
	CompareAndSetPointsFunc func(ctx context.Context, db bun.IDB, name string, expected, next int) error
}

func NewFakePlayerRepo(points map[string]int) *FakePlayerRepo {
	copied := make(map[string]int, len(points))
	for k, v := range points {
		copied[k] = v
	}
	return &FakePlayerRepo{trace: []string{}, points: copied}
}

func (f *FakePlayerRepo) record(step string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trace = append(f.trace, step)
}

func (f *FakePlayerRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Points returns a snapshot of the stored totals.
func (f *FakePlayerRepo) Points() map[string]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]int, len(f.points))
	for k, v := range f.points {
		out[k] = v
	}
	return out
}

// SetStored changes a total behind the recalculator's back.
func (f *FakePlayerRepo) SetStored(name string, points int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.points[name] = points
}

func (f *FakePlayerRepo) List(ctx context.Context, db bun.IDB) ([]playerdb.Player, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]playerdb.Player, 0, len(f.points))
	for name, pts := range f.points {
		out = append(out, playerdb.Player{Name: name, Points: pts})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *FakePlayerRepo) Get(ctx context.Context, db bun.IDB, name string) (*playerdb.Player, error) {
	f.record("Get:" + name)
	if f.GetFunc != nil {
		return f.GetFunc(ctx, db, name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	pts, ok := f.points[name]
	if !ok {
		return nil, playerdb.ErrNotFound
	}
	return &playerdb.Player{Name: name, Points: pts}, nil
}

func (f *FakePlayerRepo) GetByLoginCode(context.Context, bun.IDB, string) (*playerdb.Player, error) {
	f.record("GetByLoginCode")
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) Upsert(context.Context, bun.IDB, *playerdb.Player) error {
	f.record("Upsert")
	return nil
}

func (f *FakePlayerRepo) SetPoints(_ context.Context, _ bun.IDB, name string, points int) error {
	f.record("SetPoints:" + name)
	f.SetStored(name, points)
	return nil
}

func (f *FakePlayerRepo) CompareAndSetPoints(ctx context.Context, db bun.IDB, name string, expected, next int) error {
	f.record("CompareAndSetPoints:" + name)
	if f.CompareAndSetPointsFunc != nil {
		return f.CompareAndSetPointsFunc(ctx, db, name, expected, next)
	}
	return f.compareAndSet(name, expected, next)
}

func (f *FakePlayerRepo) compareAndSet(name string, expected, next int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.points[name]
	if !ok {
		return playerdb.ErrNotFound
	}
	if cur != expected {
		return playerdb.ErrPointsConflict
	}
	f.points[name] = next
	return nil
}

func (f *FakePlayerRepo) AppendHistory(context.Context, bun.IDB, []playerdb.PointHistory) error {
	f.record("AppendHistory")
	return nil
}

func (f *FakePlayerRepo) ListHistory(context.Context, bun.IDB, string) ([]playerdb.PointHistory, error) {
	f.record("ListHistory")
	return []playerdb.PointHistory{}, nil
}

// FakePublisher records published messages.
type FakePublisher struct {
	mu       sync.Mutex
	Err      error
	messages map[string][]*message.Message
}

func (p *FakePublisher) Publish(topic string, msgs ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	if p.messages == nil {
		p.messages = make(map[string][]*message.Message)
	}
	p.messages[topic] = append(p.messages[topic], msgs...)
	return nil
}

func (p *FakePublisher) Messages(topic string) []*message.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*message.Message(nil), p.messages[topic]...)
}

var (
	_ VoteReader          = (*FakeVoteReader)(nil)
	_ playerdb.Repository = (*FakePlayerRepo)(nil)
)
