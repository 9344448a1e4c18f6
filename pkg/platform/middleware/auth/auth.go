package auth

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	id "academix/pkg/domain"
	"academix/pkg/platform/middleware/admin"
	"academix/pkg/requestcontext"
)

// JWTValidator defines the interface for validating bearer tokens.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims carries the claims the middleware needs from a validated token.
type JWTClaims struct {
	Subject string
	JTI     string
}

// Option configures RequireAuth.
type Option func(*options)

type options struct {
	adminToken string
}

// WithAdminToken lets a request carrying the matching X-Admin-Token through
// without a bearer token. The handler then sees an admin context and no student.
func WithAdminToken(token string) Option {
	return func(o *options) {
		o.adminToken = token
	}
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth validates the bearer token and stores the student ID (the token
// subject) in the context.
func RequireAuth(validator JWTValidator, logger *slog.Logger, opts ...Option) func(http.Handler) http.Handler {
	cfg := &options{}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if cfg.adminToken != "" && admin.TokenMatches(r, cfg.adminToken) {
				ctx = requestcontext.WithAdminActor(ctx, admin.ActorFrom(r))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			studentID, err := id.ParseStudentID(claims.Subject)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed token subject",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			ctx = requestcontext.WithStudentID(ctx, studentID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
