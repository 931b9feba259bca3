package shared

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

// ListFilters represents standard list filters
type ListFilters struct {
	Page   int
	Limit  int
	Search string
	Status string

	// Entity specific filters
	BrandID    *uuid.UUID
	CategoryID *uuid.UUID
	FunctionID *uuid.UUID
}

// Offset returns the row offset for the page.
func (f ListFilters) Offset() int {
	if f.Page < 1 {
		return 0
	}
	return (f.Page - 1) * f.Limit
}

// FiltersFromRequest reads page, limit, search and status query parameters.
func FiltersFromRequest(r *http.Request) ListFilters {
	p := httpx.ParsePage(r)
	q := r.URL.Query()
	f := ListFilters{Page: p.Page, Limit: p.Limit, Search: p.Search, Status: q.Get("status")}
	f.BrandID = optionalID(q.Get("brandId"))
	f.CategoryID = optionalID(q.Get("categoryId"))
	f.FunctionID = optionalID(q.Get("functionId"))
	return f
}

// optionalID ignores malformed filter ids rather than failing the listing.
func optionalID(raw string) *uuid.UUID {
	id, err := httpx.ParseOptionalUUID(raw)
	if err != nil {
		return nil
	}
	return id
}

// Page converts back to the envelope paging info.
func (f ListFilters) AsPage() httpx.Page {
	return httpx.Page{Page: f.Page, Limit: f.Limit, Search: f.Search}
}

// Where accumulates positional SQL conditions.
type Where struct {
	clauses []string
	Args    []any
}

// Add appends a condition. Each "?" in cond takes the next value from args and
// becomes a positional placeholder.
func (w *Where) Add(cond string, args ...any) {
	var b strings.Builder
	next := 0
	for _, r := range cond {
		if r == '?' && next < len(args) {
			w.Args = append(w.Args, args[next])
			next++
			b.WriteString("$" + strconv.Itoa(len(w.Args)))
			continue
		}
		b.WriteRune(r)
	}
	w.clauses = append(w.clauses, b.String())
}

// SQL renders " WHERE a AND b" or an empty string.
func (w *Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// Next is the next positional placeholder number.
func (w *Where) Next() int { return len(w.Args) + 1 }
