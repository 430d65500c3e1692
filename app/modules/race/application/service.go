package raceservice

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	racedb "github.com/DKZomb0/Wieler/app/modules/race/infrastructure/repositories"
	"github.com/DKZomb0/Wieler/app/observability/metrics"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "RaceService"

// RaceService implements the Service interface.
type RaceService struct {
	repo    racedb.Repository
	logger  *slog.Logger
	metrics metrics.ServiceMetrics
	tracer  trace.Tracer
}

// NewRaceService creates a new RaceService.
func NewRaceService(repo racedb.Repository, logger *slog.Logger, m metrics.ServiceMetrics, tracer trace.Tracer) *RaceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RaceService{
		repo:    repo,
		logger:  logger,
		metrics: m,
		tracer:  tracer,
	}
}

// observe starts a span for operation and returns a function that records its outcome.
func (s *RaceService) observe(ctx context.Context, operation, announcer string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, operation, trace.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("announcer", announcer),
	))
	start := time.Now()
	if s.metrics != nil {
		s.metrics.RecordOperationAttempt(ctx, operation, serviceName)
	}

	return ctx, func(err error) {
		defer span.End()
		if s.metrics != nil {
			s.metrics.RecordOperationDuration(ctx, operation, serviceName, time.Since(start))
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			if s.metrics != nil {
				s.metrics.RecordOperationFailure(ctx, operation, serviceName)
			}
			return
		}
		if s.metrics != nil {
			s.metrics.RecordOperationSuccess(ctx, operation, serviceName)
		}
	}
}

func (s *RaceService) SearchRacers(ctx context.Context, announcer, term string) (names []string, err error) {
	ctx, done := s.observe(ctx, "SearchRacers", announcer)
	defer func() { done(err) }()

	if announcer = strings.TrimSpace(announcer); announcer == "" {
		return nil, ErrMissingAnnouncer
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return []string{}, nil
	}

	names, err = s.repo.SearchRacers(ctx, nil, announcer, term)
	if err != nil {
		return nil, apperrors.NewStore("races.search", err)
	}
	return names, nil
}

func (s *RaceService) ListRaces(ctx context.Context, announcer, racer string) (races []racedb.Race, err error) {
	ctx, done := s.observe(ctx, "ListRaces", announcer)
	defer func() { done(err) }()

	if announcer = strings.TrimSpace(announcer); announcer == "" {
		return nil, ErrMissingAnnouncer
	}

	races, err = s.repo.List(ctx, nil, announcer, strings.TrimSpace(racer))
	if err != nil {
		return nil, apperrors.NewStore("races.list", err)
	}
	return races, nil
}

func (s *RaceService) RecordRace(ctx context.Context, announcer string, in NewRace) (race *racedb.Race, err error) {
	ctx, done := s.observe(ctx, "RecordRace", announcer)
	defer func() { done(err) }()

	if announcer = strings.TrimSpace(announcer); announcer == "" {
		return nil, ErrMissingAnnouncer
	}
	race = &racedb.Race{
		Announcer: announcer,
		RacerName: strings.TrimSpace(in.RacerName),
		RaceName:  strings.TrimSpace(in.RaceName),
		Score:     strings.TrimSpace(in.Score),
		RaceDate:  in.RaceDate,
	}
	switch {
	case race.RacerName == "":
		return nil, apperrors.NewValidation("racerName", "is required")
	case race.RaceName == "":
		return nil, apperrors.NewValidation("raceName", "is required")
	case race.Score == "":
		return nil, apperrors.NewValidation("score", "is required")
	case race.RaceDate.IsZero():
		return nil, apperrors.NewValidation("raceDate", "is required")
	}

	if err := s.repo.Create(ctx, nil, race); err != nil {
		return nil, apperrors.NewStore("races.create", err)
	}

	s.logger.InfoContext(ctx, "Race recorded",
		attr.ExtractCorrelationID(ctx),
		attr.String("announcer", announcer),
		attr.String("racer", race.RacerName),
		attr.String("race_id", race.ID.String()),
	)
	return race, nil
}
