package shared

import (
	"fmt"

	"github.com/quoteroom/quoteroom/internal/platform/db"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

// MapError translates driver errors into the API sentinels, tagged with entity.
func MapError(entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case db.IsNoRows(err):
		return fmt.Errorf("%s: %w", entity, httpx.ErrNotFound)
	case db.IsUniqueViolation(err):
		return fmt.Errorf("%s already exists: %w", entity, httpx.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", entity, err)
	}
}
