package candidatehandlers

import (
	"log/slog"
	"net/http"

	candidateservice "github.com/DKZomb0/Wieler/app/modules/candidate/application"
	candidatedomain "github.com/DKZomb0/Wieler/app/modules/candidate/domain"
	"github.com/DKZomb0/Wieler/app/shared/httpx"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// CandidateHandlers implements the Handlers interface.
type CandidateHandlers struct {
	service candidateservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewCandidateHandlers creates a new CandidateHandlers instance.
func NewCandidateHandlers(service candidateservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &CandidateHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// HandleHTTPListCandidates handles GET /api/candidates.
func (h *CandidateHandlers) HandleHTTPListCandidates(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CandidateHandlers.HandleHTTPListCandidates")
	defer span.End()

	candidates, err := h.service.ListCandidates(ctx)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, candidates)
}

// HandleHTTPGetCandidate handles GET /api/candidates/{name}.
func (h *CandidateHandlers) HandleHTTPGetCandidate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CandidateHandlers.HandleHTTPGetCandidate")
	defer span.End()

	c, err := h.service.GetCandidate(ctx, chi.URLParam(r, "name"))
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, c)
}

// HandleHTTPUpdateCandidate handles PATCH /api/candidates/{name}. The body may
// carry eliminatedweek (a week or null) and isMol; absent fields stay as stored.
func (h *CandidateHandlers) HandleHTTPUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "CandidateHandlers.HandleHTTPUpdateCandidate")
	defer span.End()

	var update candidatedomain.Update
	if err := httpx.DecodeJSON(w, r, &update); err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}

	res, err := h.service.UpdateCandidate(ctx, chi.URLParam(r, "name"), update)
	if err != nil {
		httpx.WriteError(w, r, h.logger, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
