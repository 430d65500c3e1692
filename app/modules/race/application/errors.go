package raceservice

import (
	"fmt"

	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

// ErrMissingAnnouncer is returned when a call carries no announcer identity.
var ErrMissingAnnouncer = fmt.Errorf("%w: missing announcer", apperrors.ErrUnauthorized)
