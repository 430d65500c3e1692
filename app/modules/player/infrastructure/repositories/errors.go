package playerdb

import (
	"errors"
	"fmt"

	"github.com/DKZomb0/Wieler/app/shared/apperrors"
)

// Sentinel errors for the repository layer.
var (
	// ErrNotFound indicates the requested player does not exist.
	ErrNotFound = errors.New("player not found")

	// ErrPointsConflict indicates a compare-and-set lost against a concurrent write.
	ErrPointsConflict = fmt.Errorf("player points changed concurrently: %w", apperrors.ErrConflict)
)
