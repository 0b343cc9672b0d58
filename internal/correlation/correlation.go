// Package correlation threads a per-request ID through contexts, logs and
// error bodies.
package correlation

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// HeaderName carries the ID in both directions.
const HeaderName = "X-Correlation-ID"

type ctxKey struct{}

// Middleware picks the ID from the request header, then chi's request ID,
// then a fresh UUID, and echoes it back.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := FromRequest(r)
		w.Header().Set(HeaderName, id)
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// FromRequest resolves the ID a request should carry.
func FromRequest(r *http.Request) string {
	if id := r.Header.Get(HeaderName); id != "" {
		return id
	}
	if id := middleware.GetReqID(r.Context()); id != "" {
		return id
	}
	return uuid.NewString()
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// GetID returns "" when ctx has no ID.
func GetID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Logger adds a correlation_id attribute when ctx has one.
func Logger(ctx context.Context, logger *slog.Logger) *slog.Logger {
	id := GetID(ctx)
	if id == "" {
		return logger
	}
	return logger.With(slog.String("correlation_id", id))
}
