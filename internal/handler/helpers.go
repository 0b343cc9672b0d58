// Package handler serves the CMMS REST API.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/cmmsmind/backend/internal/apierrors"
	"github.com/cmmsmind/backend/internal/correlation"
	"github.com/cmmsmind/backend/internal/model"
)

// maxBodyBytes bounds JSON and CSV request bodies.
const maxBodyBytes = 5 << 20

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// writeList wraps a collection in the {"data": [...]} envelope.
func writeList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": items})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierrors.NewBadRequestError("invalid request body: " + err.Error())
	}
	return nil
}

// base carries the logger shared by every handler.
type base struct {
	logger *slog.Logger
}

// fail writes err as an APIError. Unexpected errors are logged with the
// request's correlation ID.
func (b base) fail(w http.ResponseWriter, r *http.Request, err error, resource, id string) {
	apiErr := apierrors.FromError(err, resource, id)
	if apiErr.StatusCode >= http.StatusInternalServerError {
		correlation.Logger(r.Context(), b.logger).Error("request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
	}
	apiErr.Write(w, r)
}

// invalid writes a validation error when errs is not empty.
func invalid(w http.ResponseWriter, r *http.Request, errs map[string]string) bool {
	if len(errs) == 0 {
		return false
	}
	apierrors.NewValidationError("validation failed", errs).Write(w, r)
	return true
}

func badRequest(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		apiErr.Write(w, r)
		return
	}
	apierrors.NewBadRequestError(err.Error()).Write(w, r)
}

func queryBool(q url.Values, key string) (*bool, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be true or false", key)
	}
	return &b, nil
}

func queryInt(q url.Values, key string, def int) (int, error) {
	v := q.Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}

func queryDate(q url.Values, key string) (*model.Date, error) {
	v := q.Get(key)
	if v == "" {
		return nil, nil
	}
	d, err := model.ParseDate(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &d, nil
}

// queryList splits a comma-separated parameter, dropping blanks.
func queryList(q url.Values, key string) []string {
	v := q.Get(key)
	if v == "" {
		return nil
	}
	return lo.Compact(lo.Map(strings.Split(v, ","), func(s string, _ int) string {
		return strings.TrimSpace(s)
	}))
}
