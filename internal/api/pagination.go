package api

import (
	"net/http"
	"strconv"
)

const maxLimit = 100

// ParseLimitOffset lee limit y offset de la query. ok es false cuando no se pidió limit:
// en ese caso el listado va completo.
func ParseLimitOffset(r *http.Request) (limit, offset int, ok bool) {
	s := r.URL.Query().Get("limit")
	if s == "" {
		return 0, 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, 0, false
	}
	limit = n
	if limit > maxLimit {
		limit = maxLimit
	}
	if s := r.URL.Query().Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset, true
}
