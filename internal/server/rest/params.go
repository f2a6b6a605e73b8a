package rest

import (
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
)

// page reads skip and limit. A missing limit falls back to def; any limit
// is capped at the configured maximum.
func (s *Server) page(r *http.Request, def int) (models.Page, error) {
	q := r.URL.Query()
	p := models.Page{Limit: def}

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, queryError("skip", "must be a non-negative integer")
		}
		p.Skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return p, queryError("limit", "must be a non-negative integer")
		}
		p.Limit = n
	}
	if s.opts.MaxPageSize > 0 && p.Limit > s.opts.MaxPageSize {
		p.Limit = s.opts.MaxPageSize
	}
	return p, nil
}

func queryBool(r *http.Request, name string) (*bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, queryError(name, "must be a boolean")
	}
	return &b, nil
}

func queryString(r *http.Request, name string) *string {
	q := r.URL.Query()
	if !q.Has(name) {
		return nil
	}
	v := q.Get(name)
	return &v
}

func queryError(name, msg string) error {
	return common.Validation("Invalid query parameter "+name, map[string]string{name: msg})
}
