package playerservice

import (
	"context"

	"github.com/DKZomb0/Wieler/app/events"
	playerdomain "github.com/DKZomb0/Wieler/app/modules/player/domain"
	playerdb "github.com/DKZomb0/Wieler/app/modules/player/infrastructure/repositories"
)

// Service exposes the player store to the HTTP and event layers.
type Service interface {
	ListPlayers(ctx context.Context) ([]playerdomain.Standing, error)
	GetPlayer(ctx context.Context, name string) (*playerdb.Player, error)
	// Login resolves a login code to the player it belongs to.
	Login(ctx context.Context, code string) (*LoginResult, error)
	// ExportLeaderboard renders the leaderboard as an XLSX workbook.
	ExportLeaderboard(ctx context.Context) ([]byte, error)
	GetHistory(ctx context.Context, name string) ([]playerdb.PointHistory, error)
	// RecordAdjustments appends the adjustments of one recalculation run to the point history.
	RecordAdjustments(ctx context.Context, payload *events.ScoreRecalculatedPayloadV1) error
}

// LoginResult identifies the logged in player.
type LoginResult struct {
	Name string `json:"name"`
}
