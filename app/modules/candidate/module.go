package candidate

import (
	"context"
	"log/slog"
	"sync"

	"github.com/DKZomb0/Wieler/app/eventbus"
	candidateservice "github.com/DKZomb0/Wieler/app/modules/candidate/application"
	candidatehandlers "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/handlers"
	candidatedb "github.com/DKZomb0/Wieler/app/modules/candidate/infrastructure/repositories"
	scoreservice "github.com/DKZomb0/Wieler/app/modules/score/application"
	"github.com/DKZomb0/Wieler/app/observability"
	"github.com/DKZomb0/Wieler/config"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the candidate module.
type Module struct {
	CandidateService candidateservice.Service
	Repository       candidatedb.Repository
	cancelFunc       context.CancelFunc
	logger           *slog.Logger
}

// NewCandidateModule creates the candidate module. Status updates that flip a
// candidate's flags are handed to recalculator exactly once.
func NewCandidateModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	publisher eventbus.Publisher,
	repo candidatedb.Repository,
	recalculator scoreservice.Service,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Logger
	tracer := obs.Tracer

	logger.InfoContext(ctx, "candidate.NewCandidateModule initializing")

	// 1. Initialize Service
	service := candidateservice.NewCandidateService(repo, recalculator, logger, obs.Metrics, tracer, publisher, db, cfg.Episodes.Total)

	// 2. Initialize Handlers
	handlers := candidatehandlers.NewCandidateHandlers(service, logger, tracer)

	// 3. Register HTTP routes
	if httpRouter != nil {
		httpRouter.Route("/api/candidates", func(r chi.Router) {
			r.Get("/", handlers.HandleHTTPListCandidates)
			r.Get("/{name}", handlers.HandleHTTPGetCandidate)
			r.Patch("/{name}", handlers.HandleHTTPUpdateCandidate)
		})
	}

	return &Module{
		CandidateService: service,
		Repository:       repo,
		logger:           logger,
	}, nil
}

// Run blocks until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	m.logger.InfoContext(ctx, "Starting candidate module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	m.logger.InfoContext(ctx, "Candidate module goroutine stopped")
}

// Close shuts down the candidate module.
func (m *Module) Close() error {
	m.logger.Info("Stopping candidate module")
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	return nil
}
