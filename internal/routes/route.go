package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"snapbook/internal/container"
	"snapbook/internal/handlers"
	"snapbook/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	if container.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Config.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger, container.Config.IsProduction()))
	r.Use(gin.Recovery())

	auth := middleware.AuthMiddleware(container.UserService, container.Logger)
	optionalAuth := middleware.OptionalAuth(container.UserService, container.Logger)
	admin := middleware.RequireAdmin()

	// API version 1
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "snapbook-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.CreateUser(container.UserService))
		v1.POST("/login", handlers.AuthenticateUser(container.UserService))
		v1.POST("/logout", handlers.Logout())

		serviceRoutes := v1.Group("/services")
		{
			serviceRoutes.GET("", handlers.GetServices(container.CatalogService))
			serviceRoutes.GET("/:id", handlers.GetServiceByID(container.CatalogService))
			serviceRoutes.POST("", auth, admin, handlers.CreateService(container.CatalogService))
		}

		bookingRoutes := v1.Group("/bookings")
		{
			// Guest bookings stay possible when enabled; the service
			// rejects anonymous creates otherwise.
			bookingRoutes.POST("", optionalAuth, handlers.CreateBooking(container.BookingService))
			bookingRoutes.GET("/mybookings", auth, handlers.GetMyBookings(container.BookingService))
			bookingRoutes.GET("", auth, admin, handlers.GetAllBookings(container.BookingService))
			bookingRoutes.PUT("/:id/status", auth, admin, handlers.UpdateBookingStatus(container.BookingService))
		}
	}

	return r
}
