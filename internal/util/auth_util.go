package util

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/response"
)

// Context keys set by the auth middleware
const (
	ContextUserID    = "user_id"
	ContextUserRole  = "user_role"
	ContextUserName  = "user_name"
	ContextUserEmail = "user_email"
	ContextJWTToken  = "jwtToken"
)

// SetActor stores the authenticated caller on the gin context
func SetActor(c *gin.Context, actor domain.Actor, token string) {
	c.Set(ContextUserID, actor.ID)
	c.Set(ContextUserRole, actor.Role)
	c.Set(ContextUserName, actor.Name)
	c.Set(ContextUserEmail, actor.Email)
	c.Set(ContextJWTToken, token)
}

// ExtractActor reads the caller set by the auth middleware. It writes a 401
// and returns false when no caller is present.
func ExtractActor(c *gin.Context) (domain.Actor, bool) {
	userID := c.GetString(ContextUserID)
	if userID == "" {
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "User ID not found in context")
		return domain.Actor{}, false
	}

	role, _ := c.Get(ContextUserRole)
	r, _ := role.(domain.Role)

	return domain.Actor{
		ID:    userID,
		Role:  r,
		Name:  c.GetString(ContextUserName),
		Email: c.GetString(ContextUserEmail),
	}, true
}
