package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/labyrinth/pkg/errors"
	"github.com/matzehuels/labyrinth/pkg/grid"
	"github.com/matzehuels/labyrinth/pkg/observability"
)

type errorResponse struct {
	Error   errors.Code `json:"error"`
	Message string      `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("write response", "error", err)
	}
}

func (s *Server) writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	code := errors.GetCode(err)
	switch {
	case code != "":
	case err == context.DeadlineExceeded:
		code = "TIMEOUT"
	case err == context.Canceled:
		code = "CANCELED"
	default:
		code = errors.ErrCodeInternal
	}
	s.writeJSON(w, status, errorResponse{Error: code, Message: errors.UserMessage(err)})
}

// statusFor maps an error to an HTTP status code.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat,
		errors.ErrCodeMalformedCoordinate, errors.ErrCodeSeedMismatch:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeNotReady:
		return http.StatusServiceUnavailable
	}
	switch err {
	case context.DeadlineExceeded:
		return http.StatusGatewayTimeout
	case context.Canceled:
		// client went away; the status is never seen
		return 499
	}
	return http.StatusInternalServerError
}

func seedParam(r *http.Request) (uint32, error) {
	return errors.ParseSeed(chi.URLParam(r, "seed"))
}

// intQuery parses an integer query parameter, returning def when absent.
func intQuery(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeInvalidInput, err, "query parameter %s", name)
	}
	return n, nil
}

func boolQuery(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// parsePoint parses "x,y".
func parsePoint(s string) (grid.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return grid.Point{}, errors.New(errors.ErrCodeInvalidInput, "point %q is not x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return grid.Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q", s)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return grid.Point{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q", s)
	}
	if err := errors.ValidatePosition(x, y); err != nil {
		return grid.Point{}, err
	}
	return grid.Point{X: x, Y: y}, nil
}

func pointQuery(r *http.Request, name string) (grid.Point, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return grid.Point{}, errors.New(errors.ErrCodeInvalidInput, "query parameter %s is required", name)
	}
	return parsePoint(v)
}
