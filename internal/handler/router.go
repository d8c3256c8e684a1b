package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/capitalize-ai/sales-assistant/internal/middleware"
	"github.com/capitalize-ai/sales-assistant/pkg/logger"
)

// Handlers groups every HTTP handler.
type Handlers struct {
	Health        *HealthHandler
	Products      *ProductHandler
	Orders        *OrderHandler
	Conversations *ConversationHandler
	Messages      *MessageHandler
	Webhook       *WebhookHandler
}

// RouterConfig holds the security settings of the router.
type RouterConfig struct {
	JWTSecret         string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	// ChatRateLimit caps chat messages per client IP per minute; 0 disables it.
	ChatRateLimit  int
	AllowedOrigins []string
}

// NewRouter wires the admin API.
func NewRouter(h Handlers, cfg RouterConfig, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	r.Get("/health", h.Health.Health)
	r.Get("/ready", h.Health.Ready)
	r.Get("/status", h.Health.Status)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/webhook/erp", h.Webhook.ERP)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

		r.Get("/products", h.Products.List)
		r.Get("/analytics", h.Orders.Analytics)

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", h.Orders.List)
			r.Get("/{id}", h.Orders.Get)
			r.With(middleware.RequireScope(middleware.ScopeOrdersWrite)).Put("/{id}/status", h.Orders.UpdateStatus)
		})

		r.Get("/conversations/{userID}/logs", h.Conversations.Logs)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireScope(middleware.ScopeMessagesWrite))
			if cfg.ChatRateLimit > 0 {
				r.Use(middleware.ChatRateLimit(cfg.ChatRateLimit, time.Minute))
			}
			r.Post("/messages", h.Messages.Send)
		})
	})

	return r
}
