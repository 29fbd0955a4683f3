package middleware

import (
	"log/slog"
	"net/http"
	"os"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go/types"

	"snapbook/internal/apperr"
	"snapbook/internal/helpers"
	"snapbook/internal/services"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get("request_id")

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", method,
			"path", path,
			"status", statusCode,
			"latency", latency,
			"client_ip", clientIP,
		)
	}
}

// ErrorHandler maps errors attached to the gin context onto HTTP statuses:
// validation 400, not found 404, conflict 409, unauthorized 401, forbidden
// 403, everything else 500. Unclassified errors include a stack trace
// outside production.
func ErrorHandler(logger *slog.Logger, isProduction bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := apperr.StatusCode(err)
		requestID, _ := c.Get("request_id")

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"status", status,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		body := gin.H{"message": err.Error()}
		if status == http.StatusInternalServerError {
			body["message"] = "Server Error"
			if !isProduction {
				body["message"] = err.Error()
				body["stack"] = string(debug.Stack())
			}
		}

		c.JSON(status, body)
	}
}

// AuthMiddleware requires a valid Supabase access token cookie, refreshing
// it when possible, and stores the enriched claims under the "user" key.
func AuthMiddleware(userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "Unauthorized access",
				"error":   "JWT token not found in cookie",
			})
			c.Abort()
			return
		}

		claims, err := helpers.ValidateToken(token)
		if err != nil {
			refreshToken, refreshErr := c.Cookie("refresh_token")
			if refreshErr != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   err.Error(),
				})
				c.Abort()
				return
			}

			refreshResponse, refreshErr := userService.RefreshToken(refreshToken)
			if refreshErr != nil {
				logger.Error("Token refresh failed", "error", refreshErr)
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Token expired and refresh failed",
				})
				c.Abort()
				return
			}

			isProduction := os.Getenv("GIN_MODE") == "production"
			tokenRes, ok := refreshResponse.(*types.TokenResponse)
			if !ok || tokenRes.AccessToken == "" {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Invalid refresh response",
				})
				c.Abort()
				return
			}

			c.SetCookie("access_token", tokenRes.AccessToken, tokenRes.ExpiresIn, "/", "", isProduction, true)
			c.SetCookie("refresh_token", tokenRes.RefreshToken, 3600*24*30, "/", "", isProduction, true)

			token = tokenRes.AccessToken
			claims, err = helpers.ValidateToken(token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{
					"message": "Unauthorized access",
					"error":   "Refreshed token validation failed",
				})
				c.Abort()
				return
			}
		}

		c.Set("user", enrichClaims(claims, token, userService, logger))
		c.Set("access_token", token)
		c.Next()
	}
}

// OptionalAuth resolves the caller's identity when a valid token cookie is
// present but never rejects the request. Booking creation uses it so guest
// bookings keep working when enabled.
func OptionalAuth(userService *services.UserService, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie("access_token")
		if err != nil || token == "" {
			c.Next()
			return
		}

		claims, err := helpers.ValidateToken(token)
		if err != nil {
			c.Next()
			return
		}

		c.Set("user", enrichClaims(claims, token, userService, logger))
		c.Set("access_token", token)
		c.Next()
	}
}

// RequireAdmin gates admin routes. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userClaims, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized access"})
			c.Abort()
			return
		}

		claims, ok := userClaims.(*helpers.EnhancedClaims)
		if !ok || !claims.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"message": "not authorized as an admin"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// enrichClaims loads the caller's profile so downstream handlers see the
// stored role rather than the auth provider's.
func enrichClaims(claims *helpers.CustomClaims, token string, userService *services.UserService, logger *slog.Logger) *helpers.EnhancedClaims {
	var profileRole, username, fullname, phoneNumber, createdAt string

	userID, parseErr := uuid.Parse(claims.Subject)
	if parseErr != nil {
		logger.Error("Invalid user ID in token", "user_id", claims.Subject, "error", parseErr)
		profileRole = "guest"
	} else {
		user, err := userService.GetUser(userID, token)
		if err != nil {
			logger.Info("Profile not found, using default role",
				"user_id", claims.Subject,
				"error", err,
			)
			profileRole = "guest"
		} else {
			profileRole = user.Role
			if profileRole == "" {
				profileRole = "guest"
			}
			username = user.Username
			fullname = user.FullName
			phoneNumber = user.PhoneNumber
			createdAt = user.CreatedAt.Format(time.RFC3339)
		}
	}

	return &helpers.EnhancedClaims{
		CustomClaims: claims,
		Role:         profileRole,
		UserID:       claims.Subject,
		Username:     username,
		Email:        claims.Email,
		Fullname:     fullname,
		PhoneNumber:  phoneNumber,
		CreatedAt:    createdAt,
	}
}
