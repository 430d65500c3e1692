package votehandlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	voteservice "github.com/DKZomb0/Wieler/app/modules/vote/application"
	votedomain "github.com/DKZomb0/Wieler/app/modules/vote/domain"
	"github.com/DKZomb0/Wieler/app/shared/apperrors"
	"github.com/DKZomb0/Wieler/app/shared/httpx"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// VoteHandlers implements the Handlers interface.
type VoteHandlers struct {
	service voteservice.Service
	gate    VotingGate
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewVoteHandlers creates a new VoteHandlers instance. A nil gate leaves voting always open.
func NewVoteHandlers(
	service voteservice.Service,
	gate VotingGate,
	logger *slog.Logger,
	tracer trace.Tracer,
) Handlers {
	return &VoteHandlers{
		service: service,
		gate:    gate,
		logger:  logger,
		tracer:  tracer,
	}
}

// ballotRequest is the vote submission body.
type ballotRequest struct {
	Player  string         `json:"player" validate:"required"`
	Episode int            `json:"episode" validate:"required,min=1"`
	Scores  map[string]int `json:"scores" validate:"required,min=1"`
}

func (b ballotRequest) toBallot() votedomain.Ballot {
	return votedomain.Ballot{Player: b.Player, Episode: b.Episode, Scores: b.Scores}
}

// totalsResponse is the vote totals body.
type totalsResponse struct {
	Percentages map[string]int `json:"percentages"`
	Episode     int            `json:"episode"`
}

// HandleHTTPQueryVotes handles GET /api/votes?player=&episode=.
func (h *VoteHandlers) HandleHTTPQueryVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VoteHandlers.HandleHTTPQueryVotes")
	defer span.End()

	episode, err := parseEpisode(r.URL.Query().Get("episode"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	view, err := h.service.QueryVotes(ctx, r.URL.Query().Get("player"), episode)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	w.Header().Set("ETag", quoteETag(view.Version))
	httpx.WriteJSON(w, http.StatusOK, view)
}

// HandleHTTPSubmitVotes handles POST /api/votes.
func (h *VoteHandlers) HandleHTTPSubmitVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VoteHandlers.HandleHTTPSubmitVotes")
	defer span.End()

	var req ballotRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if h.gate != nil {
		if err := h.gate.CheckVotingOpen(ctx); err != nil {
			httpx.WriteError(w, r, h.logger, err)
			return
		}
	}

	res, err := h.service.SubmitVotes(ctx, req.toBallot())
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	w.Header().Set("ETag", quoteETag(res.Version))
	httpx.WriteJSON(w, http.StatusCreated, res)
}

// HandleHTTPReplaceVotes handles PATCH /api/votes. An If-Match header makes the
// replace conditional on the stored ballot being unchanged.
func (h *VoteHandlers) HandleHTTPReplaceVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VoteHandlers.HandleHTTPReplaceVotes")
	defer span.End()

	var req ballotRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	if h.gate != nil {
		if err := h.gate.CheckVotingOpen(ctx); err != nil {
			httpx.WriteError(w, r, h.logger, err)
			return
		}
	}

	res, err := h.service.ReplaceVotes(ctx, req.toBallot(), unquoteETag(r.Header.Get("If-Match")))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	w.Header().Set("ETag", quoteETag(res.Version))
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleHTTPEpisodeTotals handles GET /api/votes/totals/{episode}.
func (h *VoteHandlers) HandleHTTPEpisodeTotals(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VoteHandlers.HandleHTTPEpisodeTotals")
	defer span.End()

	episode, err := parseEpisode(chi.URLParam(r, "episode"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	shares, err := h.service.AggregateEpisodeShares(ctx, episode)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, totalsResponse{Percentages: shares, Episode: episode})
}

// HandleHTTPEpisodeChart handles GET /api/votes/totals/{episode}/chart.png.
func (h *VoteHandlers) HandleHTTPEpisodeChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "VoteHandlers.HandleHTTPEpisodeChart")
	defer span.End()

	episode, err := parseEpisode(chi.URLParam(r, "episode"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	png, err := h.service.RenderSharesChart(ctx, episode)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func parseEpisode(raw string) (int, error) {
	if raw == "" {
		return 0, apperrors.NewValidation("episode", "is required")
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidation("episode", fmt.Sprintf("must be a number, got %q", raw))
	}
	return n, nil
}

func quoteETag(version string) string {
	return `"` + version + `"`
}

func unquoteETag(header string) string {
	header = strings.TrimSpace(header)
	header = strings.TrimPrefix(header, "W/")
	return strings.Trim(header, `"`)
}
