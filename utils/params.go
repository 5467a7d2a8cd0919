package utils

import (
	"net/http"
	"strconv"
)

const (
	defaultLimit = 50
	maxLimit     = 100
	maxPage      = 100000
)

type QueryOptions struct {
	Page   int
	Limit  int
	UserID string
}

// Skip is the number of records before the requested page.
func (q QueryOptions) Skip() int64 {
	return int64(q.Page-1) * int64(q.Limit)
}

func ParseQueryOptions(r *http.Request) QueryOptions {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	return QueryOptions{
		Page:   page,
		Limit:  limit,
		UserID: q.Get("userId"),
	}
}
