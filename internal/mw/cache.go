package mw

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

type snapshot struct {
	status  int
	headers http.Header
	body    []byte
}

// snapshotWriter copies the response body while the handler writes it.
type snapshotWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w snapshotWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w snapshotWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Cache serves repeated GET requests from an in-memory store, keyed by
// the full request URI. Availability answers are advisory snapshots,
// so a short TTL of staleness is acceptable; mutations always bypass
// the cache. Only 2xx responses are stored.
func Cache(store *cache.Cache, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.Request.RequestURI
		if hit, ok := store.Get(key); ok {
			snap := hit.(snapshot)
			for k, v := range snap.headers {
				c.Writer.Header()[k] = v
			}
			c.Writer.WriteHeader(snap.status)
			c.Writer.Write(snap.body)
			c.Abort()
			return
		}

		w := &snapshotWriter{body: bytes.NewBuffer(nil), ResponseWriter: c.Writer}
		c.Writer = w

		c.Next()

		if w.Status() >= 200 && w.Status() < 300 {
			store.Set(key, snapshot{
				status:  w.Status(),
				headers: w.Header().Clone(),
				body:    w.body.Bytes(),
			}, ttl)
		}
	}
}
