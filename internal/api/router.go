package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"room-booking-backend/internal/booking"
	"room-booking-backend/internal/mw"
)

// RouterOptions tune the transport middleware.
type RouterOptions struct {
	RateLimitPerSec float64
	RateBurst       int
	RequestIPHeader string
	CacheTTL        time.Duration
}

// NewRouter creates and configures a new Gin router.
func NewRouter(svc *booking.Service, logger *zap.Logger, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	if opts.RateLimitPerSec <= 0 {
		opts.RateLimitPerSec = 10
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 5
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Second
	}

	handler := NewHandler(svc, logger)

	r.Use(mw.RequestID())
	r.Use(cors.Default())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateBurst, opts.RequestIPHeader)

	// Availability reads tolerate a few seconds of staleness; the
	// room search is the only cached endpoint. Slot grids feed the
	// hold flow directly and are always computed fresh.
	cacheStore := cache.New(opts.CacheTTL, 10*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/rooms", caching, handler.GetRooms)
		api.GET("/rooms/:room_id/slots", handler.GetSlots)
		api.POST("/holds", handler.PostHold)
		api.POST("/reservations", handler.PostReservation)
		api.POST("/my", handler.PostMy)
	}

	return r
}
