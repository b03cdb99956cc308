package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"room-booking-backend/internal/booking"
	"room-booking-backend/internal/timerange"
)

const (
	defaultSlotMinutes = 60
	defaultUnitMinutes = 30
)

// GetSlots handles GET /api/rooms/{room_id}/slots. The window comes
// either from start/end timestamps or from a date=YYYY-MM-DD shortcut
// meaning that whole server-local day.
func (h *Handler) GetSlots(c *gin.Context) {
	roomID, err := strconv.ParseInt(c.Param("room_id"), 10, 64)
	if err != nil {
		abortBadRequest(c, "invalid room id")
		return
	}

	window, ok := h.slotWindow(c)
	if !ok {
		return
	}

	params := booking.SlotParams{
		RoomID:      roomID,
		Window:      window,
		SlotMinutes: defaultSlotMinutes,
		UnitMinutes: defaultUnitMinutes,
	}
	if !readMinutes(c, "slot", &params.SlotMinutes) ||
		!readMinutes(c, "unit", &params.UnitMinutes) ||
		!readMinutes(c, "buffer_before", &params.BufferBefore) ||
		!readMinutes(c, "buffer_after", &params.BufferAfter) {
		return
	}

	result, err := h.svc.ListSlots(c.Request.Context(), params)
	if err != nil {
		h.abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// slotWindow resolves the requested window, date form first.
func (h *Handler) slotWindow(c *gin.Context) (timerange.Range, bool) {
	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			abortBadRequest(c, "date must be YYYY-MM-DD")
			return timerange.Range{}, false
		}
		return timerange.Range{Start: day, End: day.AddDate(0, 0, 1)}, true
	}
	return parseWindow(c, c.Query("start"), c.Query("end"))
}

// readMinutes parses an optional integer minute query parameter into
// dst, leaving the default in place when absent.
func readMinutes(c *gin.Context, name string, dst *int) bool {
	raw := c.Query(name)
	if raw == "" {
		return true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		abortBadRequest(c, name+" must be an integer number of minutes")
		return false
	}
	*dst = v
	return true
}
