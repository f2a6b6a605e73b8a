package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
)

// maxJSONBody caps request bodies decoded as JSON.
const maxJSONBody = 1 << 20

type errorBody struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn(r.Context(), "response encode failed", "error", err)
	}
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// decodeJSON reads one JSON document from the body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return common.Validation("Request body too large", nil)
		case errors.Is(err, io.EOF):
			return common.Validation("Request body is empty", nil)
		default:
			return common.Validation("Invalid JSON body", nil)
		}
	}
	if dec.More() {
		return common.Validation("Invalid JSON body", nil)
	}
	return nil
}

// bind decodes and validates a JSON request body.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeJSON(w, r, dst); err != nil {
		return err
	}
	return s.validate(dst)
}
