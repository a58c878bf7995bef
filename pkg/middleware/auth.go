package middleware

import (
	"net/http"
	"strings"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

// Authenticate validates the bearer credential and builds the typed
// caller identity exactly once per request. The user is re-loaded so
// the hash fragment embedded in the token can be compared against the
// current password hash: changing the password kills every
// outstanding token.
func Authenticate(userRepo repository.UserRepository, jwtConfig utils.JWTConfig, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			claims, err := utils.DecodeToken(jwtConfig, token)
			if err != nil {
				logger.Warn("Invalid or expired token", zap.Error(err))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			if claims.TokenType != utils.TokenTypeAccess {
				utils.ResponseUnauthorized(w, "Access token required")
				return
			}

			role, err := entity.ParseRole(claims.Role)
			if err != nil {
				logger.Warn("Token carries unknown role",
					zap.String("role", claims.Role),
					zap.String("subject", claims.Subject))
				utils.ResponseForbidden(w, "Invalid user role")
				return
			}

			user, err := userRepo.FindByEmail(r.Context(), claims.Subject)
			if err != nil {
				logger.Error("Failed to load user for token subject",
					zap.Error(err),
					zap.String("subject", claims.Subject))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				logger.Warn("Token subject no longer exists", zap.String("subject", claims.Subject))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			if claims.PwdFragment != utils.HashFragment(user.PasswordHash) {
				logger.Warn("Token issued before password change",
					zap.String("user_id", user.ID.String()))
				utils.ResponseUnauthorized(w, "Invalid or expired token")
				return
			}

			identity := utils.Identity{
				UserID: user.ID,
				Email:  user.Email,
				Role:   role,
			}

			next.ServeHTTP(w, r.WithContext(utils.SetIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole gates a route on role membership. It assumes
// Authenticate already ran.
func RequireRole(logger *zap.Logger, roles ...entity.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := utils.GetIdentity(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !identity.Role.In(roles...) {
				logger.Warn("Role check failed",
					zap.String("user_id", identity.UserID.String()),
					zap.String("role", string(identity.Role)),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Insufficient role for this operation")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken takes the credential from the Authorization header or,
// failing that, the access_token cookie.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
		return ""
	}

	cookie, err := r.Cookie("access_token")
	if err != nil {
		return ""
	}
	return cookie.Value
}
