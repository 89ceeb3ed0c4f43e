package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"contactform/internal/config"
	"contactform/internal/handler"
	"contactform/internal/httpserver"
	"contactform/internal/service/contact"
	"contactform/internal/sink"
	pkglogger "contactform/pkg/logger"
	"contactform/pkg/mq"
	"contactform/pkg/otel"
	"contactform/pkg/redis"
	"contactform/pkg/util"
)

func newLogger(cfg *config.Config) *zap.Logger {
	return pkglogger.NewLogger(cfg.Log.Level)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, logger)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	shutdownTracing, err := otel.Init(cfg.OTel, logger)
	if err != nil {
		logger.Warn("Tracing disabled, exporter unavailable", zap.Error(err))
	} else {
		defer shutdownTracing()
	}

	// Init store (the server does not start without it)
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Store initialization failed", zap.Error(err))
		return err
	}
	defer closeStore()

	// Init RabbitMQ Publisher (optional)
	var publisher contact.EventPublisher
	var opts httpserver.RouterOptions
	if cfg.MQ.URL != "" {
		p, err := mq.NewPublisher(cfg.MQ.URL)
		if err != nil {
			logger.Warn("Event publishing disabled, broker unavailable", zap.Error(err))
		} else {
			defer p.Close()
			publisher = p
			opts.Broker = p
		}
	}

	// Init attempt limiter (optional)
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logger.Warn("Throttling disabled, redis unavailable", zap.Error(err))
		} else {
			defer rdb.Close()
			opts.Limiter = util.NewAttemptCounter(rdb, cfg.Throttle.Window)
			opts.MaxAttempts = cfg.Throttle.MaxAttempts
		}
	}

	// Init sinks, relational store first
	fanOut := sink.NewFanOut(
		sink.NewStoreSink(store),
		sink.NewCSVSink(cfg.Storage.CSVPath),
		sink.NewLogSink(cfg.Storage.LogPath),
	)

	// Init services and handlers
	contactService := contact.NewService(store, fanOut, publisher, logger)
	contactHandler := handler.NewContactHandler(contactService, logger)

	gin.SetMode(gin.ReleaseMode)
	router := httpserver.NewRouter(contactHandler, store, logger, opts)
	srv := httpserver.NewServer(cfg.Server, cfg.CORS, router)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting contact form server",
			zap.String("port", cfg.Server.Port),
			zap.String("storage", cfg.Storage.Driver),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
		return err
	}
	return nil
}
