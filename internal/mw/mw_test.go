package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func get(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestCacheServesRepeatedGets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cache.New(time.Minute, time.Minute)

	hits := 0
	r.GET("/counted", Cache(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, gin.H{"hits": hits})
	})

	first := get(r, "/counted", nil)
	second := get(r, "/counted", nil)
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, hits)

	// A different URI is a different cache entry.
	get(r, "/counted?x=1", nil)
	assert.Equal(t, 2, hits)
}

func TestCacheSkipsFailures(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cache.New(time.Minute, time.Minute)

	hits := 0
	r.GET("/flaky", Cache(store, time.Minute), func(c *gin.Context) {
		hits++
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})

	get(r, "/flaky", nil)
	get(r, "/flaky", nil)
	assert.Equal(t, 2, hits)
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", RateLimiter(rate.Limit(0.001), 1, ""), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, get(r, "/limited", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/limited", nil).Code)
}

func TestRateLimiterKeysByConfiguredHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/limited", RateLimiter(rate.Limit(0.001), 1, "X-Real-IP"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	// Separate header values get separate buckets.
	assert.Equal(t, http.StatusOK, get(r, "/limited", map[string]string{"X-Real-IP": "1.1.1.1"}).Code)
	assert.Equal(t, http.StatusOK, get(r, "/limited", map[string]string{"X-Real-IP": "2.2.2.2"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(r, "/limited", map[string]string{"X-Real-IP": "1.1.1.1"}).Code)
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := get(r, "/", nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = get(r, "/", map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
