package helpers

import (
	"net/http"
	"strconv"

	"eventboard/internal/domain"
)

// Pagination query parameter defaults.
const (
	DefaultFrom = 0
	DefaultSize = 10
)

// ParsePagination reads from and size from the request query string and
// returns domain.PaginationParams. Invalid or missing values fall back to
// defaults; negative values are rejected to defaults as well.
func ParsePagination(r *http.Request) domain.PaginationParams {
	from := DefaultFrom
	if s := r.URL.Query().Get("from"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			from = v
		}
	}
	size := DefaultSize
	if s := r.URL.Query().Get("size"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 1 {
			size = v
		}
	}
	return domain.PaginationParams{From: from, Size: size}
}
