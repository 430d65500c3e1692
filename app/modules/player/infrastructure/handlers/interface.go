package playerhandlers

import (
	"context"
	"net/http"

	"github.com/Black-And-White-Club/frolf-bot-shared/utils/handlerwrapper"
	"github.com/DKZomb0/Wieler/app/events"
)

// Handlers serves the player store over HTTP and consumes recalculation events.
type Handlers interface {
	HandleHTTPListPlayers(w http.ResponseWriter, r *http.Request)
	HandleHTTPExportLeaderboard(w http.ResponseWriter, r *http.Request)
	HandleHTTPGetPlayer(w http.ResponseWriter, r *http.Request)
	HandleHTTPPlayerHistory(w http.ResponseWriter, r *http.Request)
	HandleHTTPLogin(w http.ResponseWriter, r *http.Request)

	HandleScoreRecalculated(ctx context.Context, payload *events.ScoreRecalculatedPayloadV1) ([]handlerwrapper.Result, error)
}
