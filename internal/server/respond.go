package server

import (
	"encoding/json"
	"errors"
	"net/http"

	jterrors "github.com/matzehuels/jsontree/pkg/errors"
	"github.com/matzehuels/jsontree/pkg/session"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Code    jterrors.Code `json:"code"`
	Message string        `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status and an errorResponse. Errors without a
// code are internal and their text is not sent to the client.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	err = classify(err)
	code := jterrors.GetCode(err)
	resp := errorResponse{Code: code, Message: jterrors.UserMessage(err)}
	if code == "" {
		resp = errorResponse{Code: jterrors.ErrCodeInternal, Message: "internal server error"}
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	}
	setError(r, err)
	writeJSON(w, jterrors.HTTPStatus(resp.Code), resp)
}

// classify tags store and decoding errors with codes.
func classify(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case jterrors.GetCode(err) != "":
		return err
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		return jterrors.Wrap(jterrors.ErrCodeSessionNotFound, err, "session")
	case errors.As(err, &maxErr):
		return jterrors.New(jterrors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxErr.Limit)
	default:
		return err
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return jterrors.Wrap(jterrors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}
