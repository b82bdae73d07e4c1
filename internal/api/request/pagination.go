package request

import (
	"net/http"
	"strconv"
)

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Pagination holds the parsed limit and opaque cursor of a list request.
type Pagination struct {
	Limit  int
	Cursor string
}

// ParsePagination reads limit and cursor from the query string. Invalid or
// non-positive limits fall back to the default; limits above MaxLimit are
// clamped.
func ParsePagination(r *http.Request) Pagination {
	q := r.URL.Query()

	limit := DefaultLimit
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Pagination{Limit: limit, Cursor: q.Get("cursor")}
}
