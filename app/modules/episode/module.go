package episode

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	episodeservice "github.com/DKZomb0/Wieler/app/modules/episode/application"
	episodedomain "github.com/DKZomb0/Wieler/app/modules/episode/domain"
	episodehandlers "github.com/DKZomb0/Wieler/app/modules/episode/infrastructure/handlers"
	"github.com/DKZomb0/Wieler/app/observability"
	"github.com/DKZomb0/Wieler/config"
	"github.com/go-chi/chi/v5"
)

// Module represents the episode schedule module. Its service doubles as the
// vote module's voting gate.
type Module struct {
	ScheduleService *episodeservice.ScheduleService
	cancelFunc      context.CancelFunc
	logger          *slog.Logger
}

// NewEpisodeModule builds the schedule from cfg and registers GET /api/episode.
func NewEpisodeModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	clock episodedomain.Clock,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "episode.NewEpisodeModule initializing")

	first, err := cfg.Episodes.FirstAiringTime()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve first airing: %w", err)
	}

	service, err := episodeservice.NewScheduleService(
		episodedomain.Schedule{
			First:        first,
			IntervalDays: cfg.Episodes.IntervalDays,
			Duration:     time.Duration(cfg.Episodes.DurationMinutes) * time.Minute,
			Total:        cfg.Episodes.Total,
		},
		clock,
		cfg.Voting.EnforceSchedule,
		logger,
		obs.Tracer,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule service: %w", err)
	}

	if httpRouter != nil {
		handlers := episodehandlers.NewEpisodeHandlers(service, logger)
		httpRouter.Get("/api/episode", handlers.HandleHTTPEpisodeInfo)
	}

	return &Module{
		ScheduleService: service,
		logger:          logger,
	}, nil
}

// Run blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Episode module goroutine stopped")
}

// Close shuts down the episode module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
