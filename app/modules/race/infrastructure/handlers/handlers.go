package racehandlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	raceservice "github.com/DKZomb0/Wieler/app/modules/race/application"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"github.com/DKZomb0/Wieler/app/shared/httpx"
	"go.opentelemetry.io/otel/trace"
)

// AnnouncerHeader carries the calling announcer's name.
const AnnouncerHeader = "x-user-name"

const raceDateLayout = "2006-01-02"

type announcerKey struct{}

// RaceHandlers serves the race log over HTTP.
type RaceHandlers struct {
	service raceservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewRaceHandlers creates a new RaceHandlers instance.
func NewRaceHandlers(service raceservice.Service, logger *slog.Logger, tracer trace.Tracer) *RaceHandlers {
	return &RaceHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type raceRequest struct {
	RacerName string `json:"racerName" validate:"required"`
	RaceName  string `json:"raceName" validate:"required"`
	Score     string `json:"score" validate:"required"`
	RaceDate  string `json:"raceDate" validate:"required"`
}

// RequireAnnouncer rejects requests without the announcer header with 401.
func (h *RaceHandlers) RequireAnnouncer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		announcer := strings.TrimSpace(r.Header.Get(AnnouncerHeader))
		if announcer == "" {
			httpx.WriteError(w, r, h.logger, raceservice.ErrMissingAnnouncer)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), announcerKey{}, announcer)))
	})
}

func announcerFrom(ctx context.Context) string {
	announcer, _ := ctx.Value(announcerKey{}).(string)
	return announcer
}

// HandleHTTPListRaces handles GET /api/races with an optional search or racer query.
func (h *RaceHandlers) HandleHTTPListRaces(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RaceHandlers.HandleHTTPListRaces")
	defer span.End()

	announcer := announcerFrom(ctx)
	query := r.URL.Query()

	if query.Has("search") {
		names, err := h.service.SearchRacers(ctx, announcer, query.Get("search"))
		if err != nil {
			httpx.WriteError(w, r, h.logger, err)
			return
		}
		httpx.WriteJSON(w, http.StatusOK, names)
		return
	}

	races, err := h.service.ListRaces(ctx, announcer, query.Get("racer"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, races)
}

// HandleHTTPRecordRace handles POST /api/races.
func (h *RaceHandlers) HandleHTTPRecordRace(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "RaceHandlers.HandleHTTPRecordRace")
	defer span.End()

	var req raceRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	raceDate, err := parseRaceDate(req.RaceDate)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	race, err := h.service.RecordRace(ctx, announcerFrom(ctx), raceservice.NewRace{
		RacerName: req.RacerName,
		RaceName:  req.RaceName,
		Score:     req.Score,
		RaceDate:  raceDate,
	})
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, race)
}

// parseRaceDate accepts a plain date or a full RFC 3339 timestamp.
func parseRaceDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.Parse(raceDateLayout, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Time{}, apperrors.NewValidation("raceDate", "must be a date like 2006-01-02")
}
