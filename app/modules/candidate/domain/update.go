package candidatedomain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

// OptionalWeek is an eliminated week that tells an absent field apart from an
// explicit null.
type OptionalWeek struct {
	Set   bool
	Value *int
}

// UnmarshalJSON is only called when the field is present.
func (o *OptionalWeek) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Value = nil
		return nil
	}
	var week int
	if err := json.Unmarshal(data, &week); err != nil {
		return fmt.Errorf("eliminatedweek must be a number or null: %w", err)
	}
	o.Value = &week
	return nil
}

// Week returns an OptionalWeek set to week.
func Week(week int) OptionalWeek {
	return OptionalWeek{Set: true, Value: &week}
}

// ClearedWeek returns an OptionalWeek set to null.
func ClearedWeek() OptionalWeek {
	return OptionalWeek{Set: true}
}

// Update is an admin change to a candidate's flags. Absent fields are left as stored.
type Update struct {
	EliminatedWeek OptionalWeek `json:"eliminatedweek"`
	IsMol          *bool        `json:"isMol"`
}

// Validate checks a present eliminated week against the season length.
func (u Update) Validate(totalEpisodes int) error {
	if u.EliminatedWeek.Set && u.EliminatedWeek.Value != nil {
		week := *u.EliminatedWeek.Value
		if week < 1 || week > totalEpisodes {
			return apperrors.NewValidation("eliminatedweek", fmt.Sprintf("must be between 1 and %d, got %d", totalEpisodes, week))
		}
	}
	return nil
}

// Status is the part of a candidate an update can change.
type Status struct {
	EliminatedWeek *int
	IsMol          bool
}

// Transition describes what an update changed and the flags a recalculation
// must be run with.
type Transition struct {
	EliminationChanged bool
	MolChanged         bool
	// IsEliminated is true when the update carried a non-null eliminated week.
	IsEliminated bool
	// IsMol is true when the update carried isMol=true. An update that only
	// changes the eliminated week yields false here even for a stored mole.
	IsMol bool
}

// Changed reports whether a recalculation is due.
func (t Transition) Changed() bool {
	return t.EliminationChanged || t.MolChanged
}

// Apply merges u into current and reports the transition.
func Apply(current Status, u Update) (Status, Transition) {
	next := current
	var t Transition

	if u.EliminatedWeek.Set {
		t.EliminationChanged = !sameWeek(current.EliminatedWeek, u.EliminatedWeek.Value)
		t.IsEliminated = u.EliminatedWeek.Value != nil
		next.EliminatedWeek = copyWeek(u.EliminatedWeek.Value)
	}
	if u.IsMol != nil {
		t.MolChanged = *u.IsMol != current.IsMol
		t.IsMol = *u.IsMol
		next.IsMol = *u.IsMol
	}
	return next, t
}

func sameWeek(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func copyWeek(w *int) *int {
	if w == nil {
		return nil
	}
	v := *w
	return &v
}
