package routes

import (
	"tutorhive/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers all endpoints for the booking workflow.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.BookingHandler) {
	booking := r.Group("/api/bookings")
	{
		booking.POST("/confirm-payment", hb.ConfirmPayment)
		booking.POST("/:sessionID/cancel", hb.CancelSession)
	}
}
