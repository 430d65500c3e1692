package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/DKZomb0/Wieler/app/eventbus"
	"github.com/DKZomb0/Wieler/app/modules/candidate"
	"github.com/DKZomb0/Wieler/app/modules/episode"
	episodedomain "github.com/DKZomb0/Wieler/app/modules/episode/domain"
	"github.com/DKZomb0/Wieler/app/modules/player"
	"github.com/DKZomb0/Wieler/app/modules/race"
	"github.com/DKZomb0/Wieler/app/modules/score"
	"github.com/DKZomb0/Wieler/app/modules/vote"
	"github.com/DKZomb0/Wieler/app/observability"
	"github.com/DKZomb0/Wieler/app/shared/httpx"
	"github.com/DKZomb0/Wieler/config"
	"github.com/DKZomb0/Wieler/db/bundb"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App wires configuration, storage, the event bus and every module behind one HTTP router.
type App struct {
	Config        *config.Config
	Observability *observability.Observability
	DB            *bundb.DBService
	EventBus      eventbus.EventBus
	Router        *message.Router
	HTTPRouter    chi.Router

	CandidateModule *candidate.Module
	PlayerModule    *player.Module
	VoteModule      *vote.Module
	ScoreModule     *score.Module
	EpisodeModule   *episode.Module
	RaceModule      *race.Module

	server *http.Server
	wg     sync.WaitGroup
}

// NewApp connects to the database and builds every module.
func NewApp(ctx context.Context, cfg *config.Config, obs *observability.Observability) (*App, error) {
	dbService, err := bundb.NewBunDBService(ctx, cfg.Postgres, obs.Logger)
	if err != nil {
		return nil, err
	}

	app, err := New(ctx, cfg, obs, dbService, episodedomain.SystemClock{})
	if err != nil {
		_ = dbService.Close()
		return nil, err
	}
	return app, nil
}

// New builds the application over an existing DBService.
func New(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	dbService *bundb.DBService,
	clock episodedomain.Clock,
) (*App, error) {
	app := &App{
		Config:        cfg,
		Observability: obs,
		DB:            dbService,
		EventBus:      eventbus.New(obs.Logger),
	}

	router, err := eventbus.NewRouter(obs.Logger, app.EventBus)
	if err != nil {
		return nil, err
	}
	app.Router = router

	app.HTTPRouter = app.newHTTPRouter()

	if err := app.initializeModules(ctx, clock); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *App) newHTTPRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpx.CORSMiddleware(app.Config.HTTP.AllowedOrigins))

	r.Get("/healthz", app.handleHealth)
	if app.Config.Observability.MetricsEnabled {
		r.Handle("/metrics", promhttp.HandlerFor(app.Observability.Registry, promhttp.HandlerOpts{}))
	}
	return r
}

func (app *App) initializeModules(ctx context.Context, clock episodedomain.Clock) error {
	cfg, obs := app.Config, app.Observability

	episodeModule, err := episode.NewEpisodeModule(ctx, cfg, obs, clock, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize episode module: %w", err)
	}
	app.EpisodeModule = episodeModule

	voteModule, err := vote.NewVoteModule(ctx, cfg, obs, app.EventBus, app.DB.VoteDB, episodeModule.ScheduleService, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize vote module: %w", err)
	}
	app.VoteModule = voteModule

	playerModule, err := player.NewPlayerModule(ctx, cfg, obs, app.EventBus, app.Router, app.DB.PlayerDB, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize player module: %w", err)
	}
	app.PlayerModule = playerModule

	scoreModule, err := score.NewScoreModule(ctx, obs, app.EventBus, app.DB.VoteDB, app.DB.PlayerDB)
	if err != nil {
		return fmt.Errorf("failed to initialize score module: %w", err)
	}
	app.ScoreModule = scoreModule

	candidateModule, err := candidate.NewCandidateModule(ctx, cfg, obs, app.DB.GetDB(), app.EventBus, app.DB.CandidateDB, scoreModule.ScoreService, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize candidate module: %w", err)
	}
	app.CandidateModule = candidateModule

	raceModule, err := race.NewRaceModule(ctx, obs, app.DB.RaceDB, app.HTTPRouter)
	if err != nil {
		return fmt.Errorf("failed to initialize race module: %w", err)
	}
	app.RaceModule = raceModule

	return nil
}

func (app *App) modules() []Module {
	return []Module{
		app.EpisodeModule,
		app.VoteModule,
		app.PlayerModule,
		app.ScoreModule,
		app.CandidateModule,
		app.RaceModule,
	}
}

// Run starts the message router, the modules and the HTTP server, and blocks
// until ctx is cancelled or the server fails.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Logger

	routerErr := make(chan error, 1)
	go func() {
		if err := app.Router.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			routerErr <- err
		}
	}()

	select {
	case <-app.Router.Running():
	case err := <-routerErr:
		return fmt.Errorf("message router failed to start: %w", err)
	case <-ctx.Done():
		return nil
	}

	for _, m := range app.modules() {
		app.wg.Add(1)
		go m.Run(ctx, &app.wg)
	}

	app.server = &http.Server{
		Addr:              app.Config.HTTP.Address,
		Handler:           app.HTTPRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("address", app.Config.HTTP.Address))
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case err := <-routerErr:
		return fmt.Errorf("message router stopped: %w", err)
	}
}

// Close stops the HTTP server, the modules, the message router and the
// database, in that order.
func (app *App) Close() error {
	logger := app.Observability.Logger
	var errs []error

	if app.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), app.Config.HTTP.ShutdownTimeout)
		if err := app.server.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http server shutdown: %w", err))
		}
		cancel()
	}

	for _, m := range app.modules() {
		if err := m.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	app.wg.Wait()

	if err := app.Router.Close(); err != nil {
		errs = append(errs, fmt.Errorf("message router close: %w", err))
	}
	if err := app.EventBus.Close(); err != nil {
		errs = append(errs, fmt.Errorf("event bus close: %w", err))
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("database close: %w", err))
		}
	}

	logger.Info("Application shut down")
	return errors.Join(errs...)
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	if db := app.DB.GetDB(); db != nil {
		if err := db.PingContext(r.Context()); err != nil {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "database unavailable"})
			return
		}
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
