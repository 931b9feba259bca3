package shared

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

func TestWhereBuildsPositionalPlaceholders(t *testing.T) {
	var w Where
	assert.Equal(t, "", w.SQL())

	w.Add("(name ILIKE ? OR sku ILIKE ?)", "%lamp%", "%lamp%")
	w.Add("brand_id = ?", "b1")
	assert.Equal(t, " WHERE (name ILIKE $1 OR sku ILIKE $2) AND brand_id = $3", w.SQL())
	assert.Equal(t, []any{"%lamp%", "%lamp%", "b1"}, w.Args)
	assert.Equal(t, 4, w.Next())
}

func TestMapError(t *testing.T) {
	assert.NoError(t, MapError("brand", nil))
	assert.ErrorIs(t, MapError("brand", pgx.ErrNoRows), httpx.ErrNotFound)
	assert.ErrorIs(t, MapError("category", &pgconn.PgError{Code: "23505"}), httpx.ErrDuplicate)

	boom := errors.New("boom")
	err := MapError("brand", fmt.Errorf("query: %w", boom))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, http.StatusInternalServerError, httpx.StatusOf(err))
}

func TestFiltersFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=2&limit=20&search=abc&status=active", nil)
	f := FiltersFromRequest(r)
	assert.Equal(t, ListFilters{Page: 2, Limit: 20, Search: "abc", Status: "active"}, f)
	assert.Equal(t, 20, f.Offset())
}
