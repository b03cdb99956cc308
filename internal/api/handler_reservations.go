package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"room-booking-backend/internal/booking"
)

// reservationRequest is the body of POST /api/reservations.
type reservationRequest struct {
	HoldToken string `json:"holdToken" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Phone     string `json:"phone" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// PostReservation handles POST /api/reservations: converting a live
// hold into a confirmed reservation.
func (h *Handler) PostReservation(c *gin.Context) {
	var req reservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	confirmation, err := h.svc.Confirm(c.Request.Context(), booking.ConfirmParams{
		Token:    req.HoldToken,
		Name:     req.Name,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, confirmation)
}
