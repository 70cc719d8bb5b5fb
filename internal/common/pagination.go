package common

import (
	"net/http"
	"strconv"
)

// Pagination is the metadata block attached to list responses.
type Pagination struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalItems int `json:"total_items"`
}

// ParsePagination reads page and page-size query parameters. The size is
// taken from "per_page", matching the response metadata, with "limit"
// accepted as an alias. Missing or malformed values fall back to page 1
// and defaultPerPage.
func ParsePagination(r *http.Request, defaultPerPage int) (page, perPage int) {
	q := r.URL.Query()
	page = positiveInt(q.Get("page"), 1)
	perPage = positiveInt(q.Get("per_page"), 0)
	if perPage == 0 {
		perPage = positiveInt(q.Get("limit"), defaultPerPage)
	}
	return page, perPage
}

func positiveInt(raw string, fallback int) int {
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return n
	}
	return fallback
}
