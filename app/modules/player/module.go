package player

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils"
	"github.com/DKZomb0/Wieler/app/eventbus"
	playerservice "github.com/DKZomb0/Wieler/app/modules/player/application"
	playerhandlers "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/handlers"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
	playerrouter "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/router"
	"github.com/DKZomb0/Wieler/app/observability"
	"github.com/DKZomb0/Wieler/app/shared/httpx"
	"github.com/DKZomb0/Wieler/config"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"
)

// Module represents the player module.
type Module struct {
	PlayerService playerservice.Service
	Repository    playerdb.Repository
	PlayerRouter  *playerrouter.PlayerRouter
	cancelFunc    context.CancelFunc
	logger        *slog.Logger
}

// NewPlayerModule creates the player module, subscribes it to recalculation
// events and registers its HTTP routes.
func NewPlayerModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	eventBus eventbus.EventBus,
	router *message.Router,
	repo playerdb.Repository,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "player.NewPlayerModule initializing")

	// 1. Initialize Service
	service := playerservice.NewPlayerService(repo, logger, obs.Metrics, tracer)

	// 2. Initialize Handlers
	handlers := playerhandlers.NewPlayerHandlers(service, logger, tracer)

	// 3. Initialize Router
	playerRouter := playerrouter.NewPlayerRouter(logger, router, eventBus, eventBus, utils.NewHelper(logger), tracer)
	if err := playerRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure player router: %w", err)
	}

	// 4. Register HTTP routes
	if httpRouter != nil {
		httpRouter.Route("/api/players", func(r chi.Router) {
			r.Get("/", handlers.HandleHTTPListPlayers)
			r.Get("/export.xlsx", handlers.HandleHTTPExportLeaderboard)
			r.Get("/{name}", handlers.HandleHTTPGetPlayer)
			r.Get("/{name}/history", handlers.HandleHTTPPlayerHistory)
		})

		limiter := httpx.NewClientLimiter(rate.Limit(float64(cfg.HTTP.LoginRatePerMin)/60), cfg.HTTP.LoginBurst)
		httpRouter.With(httpx.Throttle(limiter)).Post("/api/login", handlers.HandleHTTPLogin)
	}

	return &Module{
		PlayerService: service,
		Repository:    repo,
		PlayerRouter:  playerRouter,
		logger:        logger,
	}, nil
}

// Run blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting player module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Player module goroutine stopped")
}

// Close shuts down the player module. The shared message router is closed by the app.
func (m *Module) Close() error {
	m.logger.Info("Stopping player module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
