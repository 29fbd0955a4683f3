package handlers

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/supabase-community/gotrue-go/types"

	"snapbook/internal/apperr"
	"snapbook/internal/models"
	"snapbook/internal/services"
)

func CreateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			_ = c.Error(apperr.Validation("invalid request body: %v", err))
			return
		}

		createdUser, err := u.CreateUser(&user)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, createdUser)
	}
}

func AuthenticateUser(u *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperr.Validation("invalid request payload"))
			return
		}

		authResponse, err := u.AuthenticateUser(req.Email, req.Password)
		if err != nil {
			_ = c.Error(err)
			return
		}

		isProduction := os.Getenv("GIN_MODE") == "production"

		tokenRes, ok := authResponse.(*types.TokenResponse)
		if !ok || tokenRes.AccessToken == "" {
			_ = c.Error(apperr.Unauthorized("invalid token response"))
			return
		}

		// Access token expires with the session; refresh token after 30 days
		c.SetCookie("access_token", tokenRes.AccessToken, tokenRes.ExpiresIn, "/", "", isProduction, true)
		c.SetCookie("refresh_token", tokenRes.RefreshToken, 3600*24*30, "/", "", isProduction, true)

		// Return user info but not tokens
		c.JSON(http.StatusOK, gin.H{
			"user": tokenRes.User,
		})
	}
}

func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		isProduction := os.Getenv("GIN_MODE") == "production"

		c.SetCookie("access_token", "", -1, "/", "", isProduction, true)
		c.SetCookie("refresh_token", "", -1, "/", "", isProduction, true)

		c.JSON(http.StatusOK, gin.H{
			"message": "Logged out successfully",
		})
	}
}
