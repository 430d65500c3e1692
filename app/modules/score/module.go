package score

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DKZomb0/Wieler/app/eventbus"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	scoreservice "github.com/DKZomb0/Wieler/app/modules/score/application"
	"github.com/DKZomb0/Wieler/app/observability"
)

// Module represents the score recalculation module. It has no transport of
// its own; the candidate module drives it.
type Module struct {
	ScoreService scoreservice.Service
	cancelFunc   context.CancelFunc
	logger       *slog.Logger
}

// NewScoreModule creates the score recalculator over the vote and player stores.
func NewScoreModule(
	ctx context.Context,
	obs *observability.Observability,
	publisher eventbus.Publisher,
	votes scoreservice.VoteReader,
	players playerdb.Repository,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "score.NewScoreModule initializing")

	service := scoreservice.NewScoreService(votes, players, logger, obs.Metrics, obs.Tracer, publisher)

	return &Module{
		ScoreService: service,
		logger:       logger,
	}, nil
}

// Run blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting score module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Score module goroutine stopped")
}

// Close shuts down the score module.
func (m *Module) Close() error {
	m.logger.Info("Stopping score module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
