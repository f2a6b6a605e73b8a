package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

var statusByKind = []struct {
	kind   error
	status int
}{
	{common.ErrNotFound, http.StatusNotFound},
	{common.ErrConflict, http.StatusConflict},
	{common.ErrUnauthenticated, http.StatusUnauthorized},
	{common.ErrForbidden, http.StatusForbidden},
	{common.ErrValidation, http.StatusBadRequest},
	{common.ErrRateLimited, http.StatusTooManyRequests},
}

// statusOf maps an error kind to its HTTP status. Storage, upload and
// unclassified faults are 500.
func statusOf(err error) int {
	for _, m := range statusByKind {
		if errors.Is(err, m.kind) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// writeError renders err as {"detail": ...}. Details of 500s are only
// logged.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = common.Classify(err)
	status := statusOf(err)

	body := errorBody{Detail: common.MessageOf(err)}
	var ce *common.Error
	if errors.As(err, &ce) && len(ce.Fields) > 0 {
		body.Errors = ce.Fields
	}

	switch {
	case status == http.StatusUnauthorized:
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
	case status >= http.StatusInternalServerError:
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	s.writeJSON(w, r, status, body)
}
