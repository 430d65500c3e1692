package episodehandlers

import (
	"log/slog"
	"net/http"

	episodeservice "github.com/DKZomb0/Wieler/app/modules/episode/application"
	"github.com/DKZomb0/Wieler/app/shared/httpx"
)

// EpisodeHandlers serves the broadcast schedule.
type EpisodeHandlers struct {
	service episodeservice.Service
	logger  *slog.Logger
}

// NewEpisodeHandlers creates a new EpisodeHandlers instance.
func NewEpisodeHandlers(service episodeservice.Service, logger *slog.Logger) *EpisodeHandlers {
	return &EpisodeHandlers{service: service, logger: logger}
}

// HandleHTTPEpisodeInfo handles GET /api/episode.
func (h *EpisodeHandlers) HandleHTTPEpisodeInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache")
	httpx.WriteJSON(w, http.StatusOK, h.service.Info(r.Context()))
}
