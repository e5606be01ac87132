package shared

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func MetricsMiddleware(metrics *AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		duration := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordRequest(
			c.Request.Context(),
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
			duration,
		)
	}
}

func SetupGinMiddleware(router *gin.Engine, serviceName string, metrics *AppMetrics, logger *LokiLogger) {
	SetupGinMiddlewareWithConfig(router, serviceName, metrics, logger, GetDefaultConfig())
}

func SetupGinMiddlewareWithConfig(router *gin.Engine, serviceName string, metrics *AppMetrics, logger *LokiLogger, config *AppConfig) {
	router.Use(otelgin.Middleware(serviceName))
	router.Use(LoggingMiddleware(logger))

	if metrics != nil {
		router.Use(MetricsMiddleware(metrics))
	}

	zapLogger := logger.Logger.Logger

	enforcer := NewHTTPSEnforcer(zapLogger)
	enforcer.SetEnabled(config.EnforceHTTPS)
	router.Use(enforcer.HTTPSMiddleware())

	if config.RateLimitEnabled {
		limiter := NewRateLimiter(zapLogger, metrics)

		for path, rlc := range config.RateLimitConfigs {
			limiter.SetConfig(path, RateLimitEndpointConfig{
				Requests: rlc.Requests,
				Window:   rlc.Window,
				KeyFunc:  GetClientIP,
			})
		}

		router.Use(limiter.RateLimitMiddleware())
	}

	if config.CacheEnabled {
		responseCache := NewResponseCache(zapLogger, metrics)

		for path, cc := range config.CacheConfigs {
			responseCache.SetConfig(path, cc)
		}

		router.Use(responseCache.CacheMiddleware())
	}
}
