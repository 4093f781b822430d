package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aretw0/prr/pkg/domain"
)

const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeInternal       = "INTERNAL"
)

// categoryStatus maps domain error categories to HTTP statuses.
var categoryStatus = []struct {
	err    error
	status int
}{
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrDuplicate, http.StatusConflict},
	{domain.ErrInvalidFormat, http.StatusBadRequest},
	{domain.ErrIllegalTransition, http.StatusConflict},
	{domain.ErrUnreachable, http.StatusConflict},
	{domain.ErrNotPermitted, http.StatusForbidden},
	{domain.ErrUnsupported, http.StatusUnprocessableEntity},
	{domain.ErrUnrecognizedEntry, http.StatusBadRequest},
}

// errRequest marks malformed request bodies and parameters.
type errRequest struct {
	msg string
}

func (e *errRequest) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &errRequest{msg: fmt.Sprintf(format, args...)}
}

// writeDomainErr writes err with the status of its category. The code is the domain code
// when err carries one.
func (s *Server) writeDomainErr(w http.ResponseWriter, r *http.Request, err error) {
	var re *errRequest
	if errors.As(err, &re) {
		writeErr(w, http.StatusBadRequest, codeInvalidRequest, re.msg)
		return
	}
	if code := domain.CodeOf(err); code != "" {
		status := http.StatusInternalServerError
		for _, c := range categoryStatus {
			if errors.Is(err, c.err) {
				status = c.status
				break
			}
		}
		writeErr(w, status, string(code), err.Error())
		return
	}
	s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	writeErr(w, http.StatusInternalServerError, codeInternal, err.Error())
}

func writeErr(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: msg,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return badRequest("invalid request body: %v", err)
	}
	return nil
}
