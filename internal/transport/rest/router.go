package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/cigarcraft/cigar-commerce/internal/catalog"
	"github.com/cigarcraft/cigar-commerce/internal/checkout"
	"github.com/cigarcraft/cigar-commerce/internal/order"
	"github.com/cigarcraft/cigar-commerce/internal/payment"
	"github.com/cigarcraft/cigar-commerce/internal/pricing"
	"github.com/cigarcraft/cigar-commerce/internal/transport/middleware"
	"github.com/cigarcraft/cigar-commerce/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, catalogHandler *catalog.Handler, pricingHandler *pricing.Handler, orderHandler *order.Handler, checkoutHandler *checkout.Handler, paymentHandler *payment.Handler, webhookHandler *payment.WebhookHandler, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS)
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	// Mount API under /api/v1 to match OpenAPI basePath
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if catalogHandler != nil {
			r.Get("/components", catalogHandler.ListComponents)
		}

		if pricingHandler != nil {
			r.Post("/pricing/quote", pricingHandler.QuotePrice)
		}

		if orderHandler != nil {
			r.Route("/orders", func(or chi.Router) {
				or.Post("/", orderHandler.CreateOrder)
				or.Get("/{id}", orderHandler.GetOrder)
			})
		}

		if checkoutHandler != nil {
			r.Post("/checkout/session", checkoutHandler.CreateSession)
		}

		if webhookHandler != nil {
			r.Post("/payments/callback", webhookHandler.HandleGatewayCallback)
		}

		if paymentHandler != nil {
			r.Route("/payments", func(pr chi.Router) {
				pr.Post("/{id}/refund", paymentHandler.RefundPayment)
				pr.Get("/order/{orderId}", paymentHandler.GetOrderPayments)
				pr.Get("/stats", paymentHandler.GetStats)
			})
		}
	})
}
