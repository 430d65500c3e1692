package candidatedb

import (
	"time"

	"github.com/uptrace/bun"
)

// Candidate is a contestant. The name is its identity and is what vote
// records reference.
type Candidate struct {
	bun.BaseModel `bun:"table:candidates,alias:c"`

	Name           string    `bun:"name,pk" json:"name"`
	EliminatedWeek *int      `bun:"eliminated_week" json:"eliminatedweek"`
	IsMol          bool      `bun:"is_mol,notnull,default:false" json:"isMol"`
	UpdatedAt      time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}
