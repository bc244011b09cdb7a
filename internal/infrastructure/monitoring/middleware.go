package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		// Route template keeps tab ids out of label values
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RecordHTTPRequest(method, path, status, time.Since(start))
	}
}

// Timer measures one document fetch
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer marks a fetch as in flight and starts timing it
func NewTimer(metrics *Metrics) *Timer {
	metrics.FetchStarted()
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
	}
}

// Stop records the fetch duration under status
func (t *Timer) Stop(status string) {
	t.metrics.FetchFinished(status, time.Since(t.start))
}
