package episodeservice

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	episodedomain "github.com/DKZomb0/Wieler/app/modules/episode/domain"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Service exposes the broadcast schedule.
type Service interface {
	Info(ctx context.Context) episodedomain.Info
	// CheckVotingOpen returns an error wrapping apperrors.ErrLocked while an
	// episode airs and the schedule is enforced.
	CheckVotingOpen(ctx context.Context) error
}

// ScheduleService implements Service over a fixed season schedule.
type ScheduleService struct {
	schedule episodedomain.Schedule
	clock    episodedomain.Clock
	enforce  bool
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewScheduleService creates a ScheduleService. With enforce off,
// CheckVotingOpen always passes.
func NewScheduleService(
	schedule episodedomain.Schedule,
	clock episodedomain.Clock,
	enforce bool,
	logger *slog.Logger,
	tracer trace.Tracer,
) (*ScheduleService, error) {
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = episodedomain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ScheduleService{
		schedule: schedule,
		clock:    clock,
		enforce:  enforce,
		logger:   logger,
		tracer:   tracer,
	}, nil
}

func (s *ScheduleService) Info(ctx context.Context) episodedomain.Info {
	_, span := s.tracer.Start(ctx, "ScheduleService.Info")
	defer span.End()

	info := s.schedule.Info(s.clock.Now())
	span.SetAttributes(
		attribute.Int("current_episode", info.CurrentEpisode),
		attribute.Bool("voting_allowed", info.IsVotingAllowed),
	)
	return info
}

func (s *ScheduleService) CheckVotingOpen(ctx context.Context) error {
	if !s.enforce {
		return nil
	}
	info := s.Info(ctx)
	if info.IsVotingAllowed {
		return nil
	}

	s.logger.InfoContext(ctx, "Vote rejected while episode airs",
		attr.ExtractCorrelationID(ctx),
		attr.Int("episode", info.CurrentEpisode),
		attr.Time("voting_resumes_at", info.VotingResumesAt),
	)
	return fmt.Errorf("%w: voting resumes at %s", apperrors.ErrLocked, info.VotingResumesAt.Format("2006-01-02 15:04 MST"))
}
