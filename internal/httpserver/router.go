package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"contactform/internal/handler"
	"contactform/pkg/logger"
	"contactform/pkg/otel"
)

// Pinger is implemented by the relational store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionChecker reports whether the broker connection is up.
type ConnectionChecker interface {
	IsConnected() bool
}

type Router struct {
	Engine *gin.Engine
}

// RouterOptions carries the optional collaborators of the router.
type RouterOptions struct {
	// Limiter throttles /login and /submit-form when set.
	Limiter     AttemptLimiter
	MaxAttempts int64
	// Broker is checked by /readyz when event publishing is enabled.
	Broker ConnectionChecker
}

func NewRouter(contactHandler *handler.ContactHandler, store Pinger, log *zap.Logger, opts RouterOptions) *Router {
	r := gin.New()
	r.Use(RecoveryMiddleware(log), otel.GinMiddleware(), TraceMiddleware(), AccessLogMiddleware(log), MetricsMiddleware())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := store.Ping(ctx); err != nil {
			logger.WithTrace(c.Request.Context(), log).Warn("Readiness check failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"status": "store_not_ready"})
			return
		}
		if opts.Broker != nil && !opts.Broker.IsConnected() {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "mq_not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	forms := r.Group("/")
	if opts.Limiter != nil {
		forms.Use(ThrottleMiddleware(opts.Limiter, opts.MaxAttempts, log))
	}
	forms.POST("/submit-form", contactHandler.SubmitForm)
	forms.POST("/login", contactHandler.Login)

	return &Router{Engine: r}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.Engine.ServeHTTP(w, req)
}
