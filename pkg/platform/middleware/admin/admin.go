package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"academix/pkg/requestcontext"
)

// DefaultActor is recorded when an admin request carries no X-Admin-Actor-ID.
const DefaultActor = "admin"

// TokenMatches compares the X-Admin-Token header against expected in constant time.
// An empty expected token never matches, so an unconfigured deployment has no admin surface.
func TokenMatches(r *http.Request, expected string) bool {
	if expected == "" {
		return false
	}
	token := r.Header.Get("X-Admin-Token")
	return subtle.ConstantTimeCompare([]byte(token), []byte(expected)) == 1
}

// ActorFrom returns the admin actor named by the request, or DefaultActor.
func ActorFrom(r *http.Request) string {
	if actor := r.Header.Get("X-Admin-Actor-ID"); actor != "" {
		return actor
	}
	return DefaultActor
}

func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if !TokenMatches(r, expectedToken) {
				logger.WarnContext(ctx, "admin token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"admin token required"}`))
				return
			}

			ctx = requestcontext.WithAdminActor(ctx, ActorFrom(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
