// README: Prometheus request metrics middleware.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver is satisfied by *observability.Collector.
type RequestObserver interface {
	ObserveRequest(route, method string, code int, seconds float64)
}

// Metrics labels by the matched route template so unknown paths collapse
// into a single series.
func Metrics(obs RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if obs == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()
		obs.ObserveRequest(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start).Seconds())
	}
}
