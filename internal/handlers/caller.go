package handlers

import (
	"github.com/gin-gonic/gin"

	"snapbook/internal/helpers"
	"snapbook/internal/services"
)

// callerFrom builds the explicit caller identity from the claims the auth
// middleware stored, or a guest caller when none are present.
func callerFrom(c *gin.Context) services.Caller {
	userClaims, exists := c.Get("user")
	if !exists {
		return services.Caller{}
	}

	claims, ok := userClaims.(*helpers.EnhancedClaims)
	if !ok {
		return services.Caller{}
	}

	token, _ := c.Cookie("access_token")
	return services.Caller{
		UserID:      claims.UserID,
		Role:        claims.GetSafeRole(),
		AccessToken: token,
	}
}
