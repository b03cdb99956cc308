package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	actionList   = "list"
	actionCancel = "cancel"
)

// myRequest is the body of POST /api/my. The endpoint is a POST so the
// credentials travel in the body, never in a URL.
type myRequest struct {
	Action        string `json:"action" binding:"required"`
	Phone         string `json:"phone" binding:"required"`
	Password      string `json:"password" binding:"required"`
	ReservationID int64  `json:"reservationId"`
}

// PostMy handles POST /api/my, dispatching on the action field.
func (h *Handler) PostMy(c *gin.Context) {
	var req myRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortBadRequest(c, "invalid request body")
		return
	}

	switch req.Action {
	case actionList:
		rows, err := h.svc.ListMyReservations(c.Request.Context(), req.Phone, req.Password)
		if err != nil {
			h.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reservations": rows})

	case actionCancel:
		if req.ReservationID <= 0 {
			abortBadRequest(c, "reservationId is required for cancel")
			return
		}
		if err := h.svc.Cancel(c.Request.Context(), req.ReservationID, req.Phone, req.Password); err != nil {
			h.abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})

	default:
		abortBadRequest(c, "action must be list or cancel")
	}
}
