package v1

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/climaticrisks/climatic-risks/internal/service"
)

const (
	ctxUserID       = "userID"
	ctxCivilDefense = "civilDefense"
)

// JWTAuthMiddleware validates the Bearer token and stores the caller's
// identity in the request context.
func JWTAuthMiddleware(auth service.AuthService, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			log.Warn("missing bearer token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			log.WithError(err).Warn("invalid token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxCivilDefense, claims.CivilDefense)
		c.Next()
	}
}

// CivilDefenseOnly rejects callers that are not civil defense operators.
// It must run after JWTAuthMiddleware.
func CivilDefenseOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ctxCivilDefense) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "civil defense role required"})
			return
		}
		c.Next()
	}
}

func userIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ctxUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
