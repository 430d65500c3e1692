package playerservice

import (
	"context"
	"sync"

	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakePlayerRepo is a programmable fake for playerdb.Repository.
type FakePlayerRepo struct {
	mu    sync.Mutex
	trace []string

	ListFunc                func(ctx context.Context, db bun.IDB) ([]playerdb.Player, error)
	GetFunc                 func(ctx context.Context, db bun.IDB, name string) (*playerdb.Player, error)
	GetByLoginCodeFunc      func(ctx context.Context, db bun.IDB, code string) (*playerdb.Player, error)
	UpsertFunc              func(ctx context.Context, db bun.IDB, player *playerdb.Player) error
	SetPointsFunc           func(ctx context.Context, db bun.IDB, name string, points int) error
	CompareAndSetPointsFunc func(ctx context.Context, db bun.IDB, name string, expected, next int) error
	AppendHistoryFunc       func(ctx context.Context, db bun.IDB, rows []playerdb.PointHistory) error
	ListHistoryFunc         func(ctx context.Context, db bun.IDB, player string) ([]playerdb.PointHistory, error)
}

func NewFakePlayerRepo() *FakePlayerRepo {
	return &FakePlayerRepo{trace: []string{}}
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

func (f *FakePlayerRepo) List(ctx context.Context, db bun.IDB) ([]playerdb.Player, error) {
	f.record("List")
	if f.ListFunc != nil {
		return f.ListFunc(ctx, db)
	}
	return []playerdb.Player{}, nil
}

func (f *FakePlayerRepo) Get(ctx context.Context, db bun.IDB, name string) (*playerdb.Player, error) {
	f.record("Get")
	if f.GetFunc != nil {
		return f.GetFunc(ctx, db, name)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) GetByLoginCode(ctx context.Context, db bun.IDB, code string) (*playerdb.Player, error) {
	f.record("GetByLoginCode")
	if f.GetByLoginCodeFunc != nil {
		return f.GetByLoginCodeFunc(ctx, db, code)
	}
	return nil, playerdb.ErrNotFound
}

func (f *FakePlayerRepo) Upsert(ctx context.Context, db bun.IDB, player *playerdb.Player) error {
	f.record("Upsert")
	if f.UpsertFunc != nil {
		return f.UpsertFunc(ctx, db, player)
	}
	return nil
}

func (f *FakePlayerRepo) SetPoints(ctx context.Context, db bun.IDB, name string, points int) error {
	f.record("SetPoints")
	if f.SetPointsFunc != nil {
		return f.SetPointsFunc(ctx, db, name, points)
	}
	return nil
}

func (f *FakePlayerRepo) CompareAndSetPoints(ctx context.Context, db bun.IDB, name string, expected, next int) error {
	f.record("CompareAndSetPoints")
	if f.CompareAndSetPointsFunc != nil {
		return f.CompareAndSetPointsFunc(ctx, db, name, expected, next)
	}
	return nil
}

func (f *FakePlayerRepo) AppendHistory(ctx context.Context, db bun.IDB, rows []playerdb.PointHistory) error {
	f.record("AppendHistory")
	if f.AppendHistoryFunc != nil {
		return f.AppendHistoryFunc(ctx, db, rows)
	}
	return nil
}

func (f *FakePlayerRepo) ListHistory(ctx context.Context, db bun.IDB, player string) ([]playerdb.PointHistory, error) {
	f.record("ListHistory")
	if f.ListHistoryFunc != nil {
		return f.ListHistoryFunc(ctx, db, player)
	}
	return []playerdb.PointHistory{}, nil
}

var _ playerdb.Repository = (*FakePlayerRepo)(nil)
