package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics 记录请求数、耗时和业务码；collector 注册到 reg（每个 engine 一个 registry）
func Metrics(reg prometheus.Registerer, service string) gin.HandlerFunc {
	labels := prometheus.Labels{"service": service}
	reqTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Count of HTTP requests", ConstLabels: labels},
		[]string{"path", "method", "status"},
	)
	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "Latency of HTTP requests",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"path", "method"},
	)
	reg.MustRegister(reqTotal, latency)

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		reqTotal.WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		latency.WithLabelValues(path, c.Request.Method).Observe(time.Since(start).Seconds())
	}
}
