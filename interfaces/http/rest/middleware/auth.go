package middleware

import (
	"net"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"spendtrack-backend/pkg/auth"
	"spendtrack-backend/pkg/common"
)

// Authenticate validates the bearer token on every request and places the
// authenticated user's identity in the request context. Token issuance and
// credential checks belong to the external identity provider; this layer
// only verifies what it is handed.
func Authenticate(validator *auth.JWTValidator, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Invalid authorization header format")
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				logger.Debug("token validation failed", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Invalid or expired token")
				return
			}

			ctx := common.WithUserID(r.Context(), claims.UserID)
			if claims.Email != "" {
				ctx = common.WithUserEmail(ctx, claims.Email)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClientIP extracts the originating client IP from the request
func GetClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		// First hop is the original client
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return strings.TrimSpace(forwarded)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
