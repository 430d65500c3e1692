package playerhandlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Black-And-White-Club/frolf-bot-shared/observability/attr"
	"github.com/Black-And-White-Club/frolf-bot-shared/utils/handlerwrapper"
	"github.com/DKZomb0/Wieler/app/events"
	playerservice "github.com/DKZomb0/Wieler/app/modules/player/application"
	"github.com/DKZomb0/Wieler/app/shared/httpx"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PlayerHandlers implements the Handlers interface.
type PlayerHandlers struct {
	service playerservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewPlayerHandlers creates a new PlayerHandlers instance.
func NewPlayerHandlers(service playerservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &PlayerHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

type loginRequest struct {
	Code string `json:"code" validate:"required"`
}

// HandleHTTPListPlayers handles GET /api/players.
func (h *PlayerHandlers) HandleHTTPListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlayerHandlers.HandleHTTPListPlayers")
	defer span.End()

	standings, err := h.service.ListPlayers(ctx)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, standings)
}

// HandleHTTPExportLeaderboard handles GET /api/players/export.xlsx.
func (h *PlayerHandlers) HandleHTTPExportLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlayerHandlers.HandleHTTPExportLeaderboard")
	defer span.End()

	data, err := h.service.ExportLeaderboard(ctx)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleHTTPGetPlayer handles GET /api/players/{name}.
func (h *PlayerHandlers) HandleHTTPGetPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlayerHandlers.HandleHTTPGetPlayer")
	defer span.End()

	player, err := h.service.GetPlayer(ctx, chi.URLParam(r, "name"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, player)
}

// HandleHTTPPlayerHistory handles GET /api/players/{name}/history.
func (h *PlayerHandlers) HandleHTTPPlayerHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlayerHandlers.HandleHTTPPlayerHistory")
	defer span.End()

	rows, err := h.service.GetHistory(ctx, chi.URLParam(r, "name"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rows)
}

// HandleHTTPLogin handles POST /api/login.
func (h *PlayerHandlers) HandleHTTPLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PlayerHandlers.HandleHTTPLogin")
	defer span.End()

	var req loginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	res, err := h.service.Login(ctx, req.Code)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	h.logger.InfoContext(ctx, "Player logged in",
		attr.ExtractCorrelationID(ctx),
		attr.String("player", res.Name),
	)
	httpx.WriteJSON(w, http.StatusOK, res)
}

// HandleScoreRecalculated appends a recalculation run to the point history.
// It publishes nothing in response.
func (h *PlayerHandlers) HandleScoreRecalculated(ctx context.Context, payload *events.ScoreRecalculatedPayloadV1) ([]handlerwrapper.Result, error) {
	h.logger.InfoContext(ctx, "Recording score adjustments",
		attr.ExtractCorrelationID(ctx),
		attr.String("run_id", payload.RunID),
		attr.String("candidate", payload.Candidate),
		attr.Int("adjustments", len(payload.Adjustments)),
	)
	if err := h.service.RecordAdjustments(ctx, payload); err != nil {
		return nil, err
	}
	return nil, nil
}
