package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"room-booking-backend/internal/booking"
	"room-booking-backend/internal/timerange"
)

// GetRooms handles GET /api/rooms: room-level availability search over
// a time window with optional capacity and location filters.
func (h *Handler) GetRooms(c *gin.Context) {
	window, ok := parseWindow(c, c.Query("start"), c.Query("end"))
	if !ok {
		return
	}

	params := booking.SearchParams{
		Window:   window,
		Location: c.Query("location"),
	}
	if raw := c.Query("capacity"); raw != "" {
		capacity, err := strconv.Atoi(raw)
		if err != nil || capacity < 0 {
			abortBadRequest(c, "capacity must be a non-negative integer")
			return
		}
		params.MinCapacity = capacity
	}

	result, err := h.svc.SearchRooms(c.Request.Context(), params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// parseWindow reads a start/end RFC 3339 pair. On failure it writes
// the error response and returns ok=false.
func parseWindow(c *gin.Context, startRaw, endRaw string) (timerange.Range, bool) {
	if startRaw == "" || endRaw == "" {
		abortBadRequest(c, "start and end are required")
		return timerange.Range{}, false
	}
	start, err := time.Parse(time.RFC3339, startRaw)
	if err != nil {
		abortBadRequest(c, "start must be an RFC 3339 timestamp")
		return timerange.Range{}, false
	}
	end, err := time.Parse(time.RFC3339, endRaw)
	if err != nil {
		abortBadRequest(c, "end must be an RFC 3339 timestamp")
		return timerange.Range{}, false
	}
	// Ordering is validated by the domain layer so the error shape is
	// uniform across transports.
	return timerange.Range{Start: start, End: end}, true
}
