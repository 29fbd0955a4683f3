package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"snapbook/internal/apperr"
	"snapbook/internal/services"
)

func CreateBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in services.CreateBookingInput
		if err := c.ShouldBindJSON(&in); err != nil {
			_ = c.Error(apperr.Validation("invalid request body: %v", err))
			return
		}

		booking, err := b.CreateBooking(c.Request.Context(), callerFrom(c), in)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": services.PendingConfirmationMessage,
			"booking": booking,
		})
	}
}

func GetMyBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := b.ListMyBookings(c.Request.Context(), callerFrom(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, bookings)
	}
}

func GetAllBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := b.ListAllBookings(c.Request.Context(), callerFrom(c))
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, bookings)
	}
}

func UpdateBookingStatus(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			_ = c.Error(apperr.Validation("invalid booking status provided"))
			return
		}

		booking, err := b.UpdateBookingStatus(c.Request.Context(), callerFrom(c), c.Param("id"), req.Status)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusOK, booking)
	}
}
