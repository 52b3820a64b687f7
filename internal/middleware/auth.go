package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/response"
	"github.com/atanasster/pad-champions/internal/util"
)

// RoleResolver looks up the stored role of a user whose token carries no
// role claim
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (domain.Role, error)
}

// Auth returns a middleware that validates the bearer token and stores the
// caller on the context. Websocket clients may pass the token as the
// "token" query parameter.
func Auth(tokens *util.TokenManager, resolver RoleResolver, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			abortUnauthorized(c, "Authorization header is required")
			return
		}

		actor, err := tokens.Parse(tokenString)
		if err != nil {
			if errors.Is(err, util.ErrMissingSubject) {
				abortUnauthorized(c, "User ID not found in token")
				return
			}
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		if actor.Role == "" && resolver != nil {
			role, err := resolver.ResolveRole(c.Request.Context(), actor.ID)
			if err != nil {
				// Fall through with no role; permission checks deny by default.
				logger.Warn("Failed to resolve role from profile",
					zap.String("user_id", actor.ID),
					zap.Error(err),
				)
			} else {
				actor.Role = role
			}
		}

		util.SetActor(c, actor, tokenString)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Query("token")
}

func abortUnauthorized(c *gin.Context, message string) {
	response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, message)
	c.Abort()
}
