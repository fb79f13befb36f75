package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// httpRequests counts handled requests by route and status
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghunt_http_requests_total",
		Help: "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	// httpDuration tracks request latency
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bloghunt_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
	}, []string{"method", "route"})

	// LikeToggles counts like toggles by resulting action
	LikeToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghunt_blog_like_toggles_total",
		Help: "Like toggles by action (liked, unliked)",
	}, []string{"action"})

	// CommentOps counts comment mutations by operation
	CommentOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghunt_blog_comment_ops_total",
		Help: "Comment mutations by operation (add, edit, delete)",
	}, []string{"op"})

	// AuthEvents counts credential events by outcome
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghunt_auth_events_total",
		Help: "Authentication events by event and outcome",
	}, []string{"event", "outcome"})
)

// Middleware records request count and latency per matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
