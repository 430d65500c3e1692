package playerservice

import (
	"fmt"

	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

// ErrInvalidCode is returned by Login when no player owns the code.
var ErrInvalidCode = fmt.Errorf("invalid login code: %w", apperrors.ErrUnauthorized)
