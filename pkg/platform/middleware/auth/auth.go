// Package auth guards authority-only endpoints (alert resolution, vehicle
// registration, log maintenance) with bearer-token authentication.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/platform/httputil"
	"campusgate/pkg/requestcontext"
)

// TokenValidator validates a bearer token and returns the authenticated
// authority's claims.
type TokenValidator interface {
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carries the identity asserted by a validated authority token.
type Claims struct {
	AuthorityID string
	Role        string
}

// RequireAuthority rejects requests without a valid authority bearer token
// and injects the authority ID into the context for audit trails.
func RequireAuthority(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, bearerPrefix) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := validator.ValidateToken(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				if logger != nil {
					logger.WarnContext(r.Context(), "authority token rejected",
						"request_id", requestcontext.RequestID(r.Context()),
						"remote_ip", requestcontext.ClientIP(r.Context()),
						"error", err,
					)
				}
				httputil.WriteError(w, err)
				return
			}

			ctx := requestcontext.WithAuthorityID(r.Context(), claims.AuthorityID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
