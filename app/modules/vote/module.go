package vote

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DKZomb0/Wieler/app/eventbus"
	voteservice "github.com/DKZomb0/Wieler/app/modules/vote/application"
	votedomain "github.com/DKZomb0/Wieler/app/modules/vote/domain"
	votehandlers "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/handlers"
	votedb "github.com/DKZomb0/Wieler/app/modules/vote/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/observability"
	"github.com/DKZomb0/Wieler/config"
	"github.com/go-chi/chi/v5"
)

// Module represents the vote ledger module.
type Module struct {
	VoteService voteservice.Service
	Repository  votedb.Repository
	handlers    votehandlers.Handlers
	cancelFunc  context.CancelFunc
	logger      *slog.Logger
}

// NewVoteModule creates the vote ledger and registers its HTTP routes.
func NewVoteModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	publisher eventbus.Publisher,
	repo votedb.Repository,
	gate votehandlers.VotingGate,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "vote.NewVoteModule initializing")

	// 1. Initialize Service
	service := voteservice.NewVoteService(repo, logger, obs.Metrics, tracer, publisher, voteservice.Options{
		Rules: votedomain.Rules{
			TotalEpisodes:         cfg.Episodes.Total,
			RequireFullAllocation: cfg.Voting.RequireFullAllocation,
		},
		MaxConcurrentWrites: cfg.Voting.MaxConcurrentWrites,
	})

	// 2. Initialize Handlers
	handlers := votehandlers.NewVoteHandlers(service, gate, logger, tracer)

	// 3. Register HTTP routes
	if httpRouter != nil {
		httpRouter.Route("/api/votes", func(r chi.Router) {
			r.Get("/", handlers.HandleHTTPQueryVotes)
			r.Post("/", handlers.HandleHTTPSubmitVotes)
			r.Patch("/", handlers.HandleHTTPReplaceVotes)
			r.Get("/totals/{episode}", handlers.HandleHTTPEpisodeTotals)
			r.Get("/totals/{episode}/chart.png", handlers.HandleHTTPEpisodeChart)
		})
	}

	return &Module{
		VoteService: service,
		Repository:  repo,
		handlers:    handlers,
		logger:      logger,
	}, nil
}

// Run blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting vote module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Vote module goroutine stopped")
}

// Close shuts down the vote module.
func (m *Module) Close() error {
	m.logger.Info("Stopping vote module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
