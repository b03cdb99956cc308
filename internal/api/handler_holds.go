package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"room-booking-backend/internal/booking"
	"room-booking-backend/internal/timerange"
)

// holdRequest is the body of POST /api/holds.
type holdRequest struct {
	RoomID     int64     `json:"roomId" binding:"required"`
	Start      time.Time `json:"start" binding:"required"`
	End        time.Time `json:"end" binding:"required"`
	Phone      string    `json:"phone"`
	TTLSeconds int       `json:"ttlSeconds"`
}

// PostHold handles POST /api/holds: a short-lived exclusive claim on a
// room range, identified to the caller only by its token.
func (h *Handler) PostHold(c *gin.Context) {
	var req holdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	grant, err := h.svc.CreateHold(c.Request.Context(), booking.HoldParams{
		RoomID: req.RoomID,
		Window: timerange.Range{Start: req.Start, End: req.End},
		Phone:  req.Phone,
		TTL:    time.Duration(req.TTLSeconds) * time.Second,
	})
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, grant)
}
