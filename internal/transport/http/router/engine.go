package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"admin-dashboard/internal/core/server"
	mdw "admin-dashboard/internal/transport/http/middleware"
	resp "admin-dashboard/internal/transport/http/response"
)

// Limits 是两个 engine 共用的保护参数
type Limits struct {
	CORSOrigins  []string
	RPS          float64
	Burst        int
	PerIPRPS     float64
	PerIPBurst   int
	MaxInFlight  int64
	MaxBodyBytes int64
	Timeout      time.Duration
}

func (l Limits) withDefaults() Limits {
	if l.RPS <= 0 {
		l.RPS, l.Burst = 200, 400
	}
	if l.PerIPRPS <= 0 {
		l.PerIPRPS, l.PerIPBurst = 20, 40
	}
	if l.MaxInFlight <= 0 {
		l.MaxInFlight = 300
	}
	if l.MaxBodyBytes <= 0 {
		l.MaxBodyBytes = 16 << 20
	}
	if l.Timeout <= 0 {
		l.Timeout = 10 * time.Second
	}
	return l
}

// newEngine 挂公共中间件 + /health + /metrics
func newEngine(l *zap.Logger, service string, lim Limits) *gin.Engine {
	lim = lim.withDefaults()
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := server.NewRouter(l, lim.CORSOrigins...)
	r.Use(
		mdw.RequestID(),
		mdw.Recovery(l),
		mdw.RateLimit(rate.Limit(lim.RPS), lim.Burst),
		mdw.RateLimitPerIP(rate.Limit(lim.PerIPRPS), lim.PerIPBurst, 10*time.Minute),
		mdw.ConcurrencyLimit(lim.MaxInFlight),
		mdw.MaxBodyBytes(lim.MaxBodyBytes),
		mdw.Timeout(lim.Timeout),
		mdw.Metrics(reg, service),
		mdw.AccessLog(l),
	)

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(gin.H{"ok": 1, "service": service})) })
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	r.NoRoute(func(c *gin.Context) { c.JSON(http.StatusOK, resp.Error(resp.CodeNotFound, "route not found")) })
	return r
}
