package api

import (
	"go.uber.org/zap"

	"room-booking-backend/internal/booking"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc    *booking.Service
	logger *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *booking.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}
