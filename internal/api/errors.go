package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"room-booking-backend/internal/booking"
)

// statusOf maps a domain failure code to its HTTP status.
func statusOf(code booking.Code) int {
	switch code {
	case booking.CodeInvalidInput:
		return http.StatusBadRequest
	case booking.CodeAuthFailed:
		return http.StatusUnauthorized
	case booking.CodeConflict:
		return http.StatusConflict
	case booking.CodeHoldExpired:
		return http.StatusGone
	case booking.CodePolicyViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the JSON error envelope for a domain error.
// Internal causes stay in the log; the client only sees the code and
// its public message.
func (h *Handler) abortWithError(c *gin.Context, err error) {
	code := booking.CodeOf(err)
	message := "internal error"
	var de *booking.Error
	if errors.As(err, &de) && code != booking.CodeSystemError {
		message = de.Message
	}
	if code == booking.CodeSystemError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.AbortWithStatusJSON(statusOf(code), gin.H{
		"error":   string(code),
		"message": message,
	})
}

// abortBadRequest reports a malformed request that never reached the
// domain layer.
func abortBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error":   string(booking.CodeInvalidInput),
		"message": message,
	})
}
