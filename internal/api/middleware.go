package api

import (
	"foodcart-service/internal/platform/obs"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags the request context with a request-scoped logger and
// logs end-to-end duration and response size once the handler returns.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(obs.WithRequestLogger(c.Request.Context(), reqID))

		c.Next()

		// Route template keeps metric label cardinality bounded.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := c.Writer.Status()
		dur := time.Since(start)

		obs.HTTPRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(status)).Inc()
		obs.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(dur.Seconds())

		zerolog.Ctx(c.Request.Context()).Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.RequestURI()).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Int64("dur_ms", dur.Milliseconds()).
			Msg("request")
	}
}
