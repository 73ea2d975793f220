package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/SscSPs/atm_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware creates a Gin middleware handler that validates bearer tokens and
// requires one of the allowed roles.
func AuthMiddleware(jwtSecret, issuer string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString, err := utils.BearerToken(authHeader)
		if err != nil {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		claims, err := utils.ParseAndValidateJWT(tokenString, jwtSecret, issuer)
		if err != nil {
			logger.Warn("Invalid token", slog.String("error", err.Error()))
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		if !slices.Contains(allowedRoles, claims.Role) {
			logger.Warn("Token role not permitted", slog.String("staff_id", claims.Subject), slog.String("role", claims.Role))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}

		enrichedLogger := logger.With(slog.String("staff_id", claims.Subject))
		ctx := WithLogger(WithStaffID(c.Request.Context(), claims.Subject), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
