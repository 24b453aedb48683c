package http

import (
	"net/http"
	"strconv"
)

// pageParams reads page and a page size from the query string. Missing,
// malformed or non-positive values fall back to page 1 and def.
func pageParams(r *http.Request, sizeKey string, def int) (page, size int) {
	page, size = 1, def
	q := r.URL.Query()
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 {
		page = n
	}
	if n, err := strconv.Atoi(q.Get(sizeKey)); err == nil && n > 0 {
		size = n
	}
	return page, size
}

// optionalQuery returns nil when key is absent or blank.
func optionalQuery(r *http.Request, key string) *string {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	return &v
}

func queryFlag(r *http.Request, key string) bool {
	switch r.URL.Query().Get(key) {
	case "true", "1", "yes":
		return true
	}
	return false
}
