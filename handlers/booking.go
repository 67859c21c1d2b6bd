package handlers

import (
	"errors"
	"net/http"

	"tutorhive/services/booking"
	"tutorhive/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking workflow over HTTP.
type BookingHandler struct {
	Service booking.BookingService
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// ConfirmPayment verifies a settled payment intent and books the proposed
// session.
func (h *BookingHandler) ConfirmPayment(c *gin.Context) {
	var input booking.ConfirmPaymentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	result, err := h.Service.ConfirmPaymentAndBook(c.Request.Context(), input)
	if err != nil {
		respondBookingError(c, err, "failed to confirm payment")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessionId":    result.SessionID,
		"slotsUpdated": result.SlotsUpdated,
	})
}

// CancelSession reverses a booking and refunds its payment.
func (h *BookingHandler) CancelSession(c *gin.Context) {
	sessionID := c.Param("sessionID")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session id is required"})
		return
	}

	var input struct {
		Reason         string `json:"reason"`
		IdempotencyKey string `json:"idempotencyKey"`
	}
	// The body is optional; a bare POST cancels without a reason.
	_ = c.ShouldBindJSON(&input)

	session, err := h.Service.CancelAndRefund(c.Request.Context(), booking.CancelRequest{
		SessionID:      sessionID,
		Reason:         input.Reason,
		IdempotencyKey: input.IdempotencyKey,
	})
	if err != nil {
		respondBookingError(c, err, "failed to process refund")
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// respondBookingError maps workflow error codes to HTTP statuses. Each
// precondition failure keeps its specific message; collaborator and storage
// failures collapse into the generic one so internals never leak.
func respondBookingError(c *gin.Context, err error, genericMessage string) {
	var we *booking.WorkflowError
	code := ""
	message := genericMessage
	if errors.As(err, &we) {
		code = we.Code
	}

	status := http.StatusInternalServerError
	switch code {
	case booking.CodeInvalidRequest, booking.CodePaymentNotCompleted:
		status = http.StatusBadRequest
		message = we.Message
	case booking.CodeSlotUnavailable, booking.CodeNotFound,
		booking.CodeNoBookedSlotsFound, booking.CodePaymentIntentNotFound:
		status = http.StatusNotFound
		message = we.Message
	case booking.CodeAlreadyCanceled:
		status = http.StatusConflict
		message = we.Message
	default:
		utils.GetLogger().Error("Booking workflow failed",
			zap.String("code", code),
			zap.Error(err),
		)
	}

	c.JSON(status, gin.H{"error": message})
}
