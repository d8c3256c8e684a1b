// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/capitalize-ai/sales-assistant/internal/app"
	"github.com/capitalize-ai/sales-assistant/internal/config"
	"github.com/capitalize-ai/sales-assistant/internal/handler"
	"github.com/capitalize-ai/sales-assistant/internal/service"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
	"github.com/capitalize-ai/sales-assistant/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "sales-assistant"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting sales assistant",
		zap.String("store", cfg.StoreDriver),
		zap.String("llm_provider", cfg.LLMProvider),
		zap.String("stock_strategy", cfg.StockStrategy),
	)

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "sales-assistant", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Assemble the message pipeline
	a, err := app.New(ctx, cfg, log, app.Options{})
	if err != nil {
		log.Error("failed to start pipeline", zap.Error(err))
		os.Exit(1)
	}

	runCtx, stopBackground := context.WithCancel(ctx)
	a.Start(runCtx)

	// Initialize services
	orderSvc := service.NewOrderService(a.Store, a.Orders)

	// Create router
	router := handler.NewRouter(handler.Handlers{
		Health:        handler.NewHealthHandler(a.StatusService()),
		Products:      handler.NewProductHandler(service.NewCatalogService(a.Store), log),
		Orders:        handler.NewOrderHandler(orderSvc, log),
		Conversations: handler.NewConversationHandler(a.ConversationService(), log),
		Messages:      handler.NewMessageHandler(service.NewMessageService(a.Dispatcher), log),
		Webhook:       handler.NewWebhookHandler(orderSvc, cfg.ERPWebhookToken, log),
	}, handler.RouterConfig{
		JWTSecret:         cfg.JWTSecret,
		RateLimitRequests: cfg.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow,
		ChatRateLimit:     cfg.ChatRateLimit,
		AllowedOrigins:    cfg.CORSOrigins,
	}, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	stopBackground()
	a.Close()

	log.Info("server stopped", zap.Int("sessions_dropped", a.Sessions.Len()))
}
