package ratelimit

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagoresarker/scion-visualizer/internal/models"
	"github.com/sagoresarker/scion-visualizer/internal/utils"
)

// Middleware rejects requests over the limit with 429 before next runs.
// Store errors (e.g. Redis unreachable) are logged and the request is let
// through.
func Middleware(l Limiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			err := l.Allow(r.Context(), utils.GetClientIP(r))
			switch {
			case err == nil:
				next.ServeHTTP(w, r)
			case errors.Is(err, ErrLimitExceeded):
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: err.Error()})
			default:
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
			}
		})
	}
}
