package main

import (
	"github.com/gin-gonic/gin"

	"printforge.backend/internal/interfaces/http/handlers"
	"printforge.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	loyaltyHandler      *handlers.LoyaltyHandler
	adminLoyaltyHandler *handlers.AdminLoyaltyHandler
	pricingHandler      *handlers.PricingHandler
	webhookHandler      *handlers.WebhookHandler
	exportHandler       *handlers.ExportHandler

	authMiddleware           gin.HandlerFunc
	orderWebhookSignature    gin.HandlerFunc
	customerWebhookSignature gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Loyalty routes (protected)
		me := v1.Group("/me/loyalty")
		me.Use(d.authMiddleware)
		{
			me.GET("", d.loyaltyHandler.GetWallet)
			me.GET("/history", d.loyaltyHandler.GetHistory)
			me.POST("/redeem", middleware.IdempotencyMiddleware(), d.loyaltyHandler.Redeem)
		}

		// Catalog and pricing routes (public)
		v1.GET("/products", d.pricingHandler.ListProducts)
		v1.POST("/products/:id/quote", d.pricingHandler.Quote)
		v1.POST("/shipping/estimate", d.pricingHandler.EstimateShipping)

		// Storefront webhooks (HMAC-signed, service-to-service)
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/orders", d.orderWebhookSignature, d.webhookHandler.HandleOrderWebhook)
			webhooks.POST("/customers", d.customerWebhookSignature, d.webhookHandler.HandleCustomerWebhook)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.POST("/loyalty/award", d.adminLoyaltyHandler.Award)
			admin.POST("/loyalty/reclaim", d.adminLoyaltyHandler.Reclaim)
			admin.GET("/loyalty/transactions/export", d.exportHandler.ExportTransactions)
		}
	}
}
