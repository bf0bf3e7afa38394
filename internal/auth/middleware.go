package auth

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	apierrors "github.com/socio-africa/backend/internal/errors"
	"github.com/socio-africa/backend/internal/logger"
	"github.com/socio-africa/backend/internal/util"
	"go.uber.org/zap"
)

// RequireAuth resolves the bearer token and aborts with 401 when it is
// missing or invalid. Auth-service outages surface as 502 UPSTREAM_FAILURE
// rather than 401 so clients can tell the difference.
func RequireAuth(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			util.RespondUnauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		identity, err := s.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, ErrInvalidToken) {
				util.RespondUnauthorized(c, "invalid token")
			} else {
				logger.Error("token validation failed", zap.Error(err))
				util.RespondWithAPIError(c, apierrors.UpstreamFailure("auth service"))
			}
			c.Abort()
			return
		}

		c.Set("user_id", identity.UserID)
		c.Set("username", identity.Username)
		c.Next()
	}
}

// OptionalAuth resolves the bearer token when present but never rejects the
// request. Anonymous viewers get unauthenticated reads.
func OptionalAuth(s *Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			if identity, err := s.Authenticate(c.Request.Context(), token); err == nil {
				c.Set("user_id", identity.UserID)
				c.Set("username", identity.Username)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
