package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"contactform/internal/handler"
	"contactform/pkg/logger"
	"contactform/pkg/metrics"
	"contactform/pkg/trace"
	"contactform/pkg/util"
)

// TraceMiddleware attaches a trace id to the request context and echoes it in the response.
func TraceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := trace.FromHeaders(c.GetHeader(trace.HeaderName), c.GetHeader("X-Request-ID"))
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName, traceID)
		c.Next()
	}
}

// AccessLogMiddleware logs one line per request.
func AccessLogMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithTrace(c.Request.Context(), log).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// MetricsMiddleware records request latency by route template.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// RecoveryMiddleware turns panics into a bare 500 and logs them.
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.WithTrace(c.Request.Context(), log).Error("panic recovered",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.Stack("stack"),
		)
		c.AbortWithStatus(http.StatusInternalServerError)
	})
}

// AttemptLimiter counts attempts per key.
type AttemptLimiter interface {
	IncrementAndGet(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// ThrottleMiddleware rejects a client once it exceeds maxAttempts within the limiter's window.
// Limiter errors let the request through. A successful login clears the client's count.
func ThrottleMiddleware(limiter AttemptLimiter, maxAttempts int64, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := util.FormatAttemptKey(c.FullPath(), c.ClientIP())
		count, err := limiter.IncrementAndGet(c.Request.Context(), key)
		if err != nil {
			logger.WithTrace(c.Request.Context(), log).Warn("Attempt limiter unavailable, allowing request",
				zap.String("key", key),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if count > maxAttempts {
			metrics.IncrementThrottled(c.FullPath())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "error",
				"message": "Too many attempts, please try again later",
			})
			return
		}
		c.Next()

		if c.GetBool(handler.LoginSucceededKey) {
			if err := limiter.Reset(c.Request.Context(), key); err != nil {
				logger.WithTrace(c.Request.Context(), log).Warn("Failed to reset login attempts",
					zap.String("key", key),
					zap.Error(err),
				)
			}
		}
	}
}
