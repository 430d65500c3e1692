package race

import (
	"context"
	"log/slog"
	"sync"

	raceservice "github.com/DKZomb0/Wieler/app/modules/race/application"
	racehandlers "github.com/DKZomb0/Wieler/app/modules/race/infrastructure/handlers"
	racedb "github.com/DKZomb0/Wieler/app/modules/race/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/observability"
	"github.com/go-chi/chi/v5"
)

// Module represents the announcer race log.
type Module struct {
	RaceService raceservice.Service
	cancelFunc  context.CancelFunc
	logger      *slog.Logger
}

// NewRaceModule creates the race log and registers its HTTP routes.
func NewRaceModule(
	ctx context.Context,
	obs *observability.Observability,
	repo racedb.Repository,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	logger.InfoContext(ctx, "race.NewRaceModule initializing")

	service := raceservice.NewRaceService(repo, logger, obs.Metrics, obs.Tracer)
	handlers := racehandlers.NewRaceHandlers(service, logger, obs.Tracer)

	if httpRouter != nil {
		httpRouter.Route("/api/races", func(r chi.Router) {
			r.Use(handlers.RequireAnnouncer)
			r.Get("/", handlers.HandleHTTPListRaces)
			r.Post("/", handlers.HandleHTTPRecordRace)
		})
	}

	return &Module{
		RaceService: service,
		logger:      logger,
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
	m.logger.InfoContext(ctx, "Race module goroutine stopped")
}

// Close shuts down the race module.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
