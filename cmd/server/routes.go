package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cotahub.backend/internal/interfaces/http/handlers"
	"cotahub.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler    *handlers.AuthHandler
	walletHandler  *handlers.WalletHandler
	webhookHandler *handlers.WebhookHandler
	adminHandler   *handlers.AdminHandler
	authMiddleware gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
		}

		// Wallet routes (protected, owner scope)
		wallet := v1.Group("/wallet")
		wallet.Use(d.authMiddleware)
		{
			wallet.GET("", d.walletHandler.GetWallet)
			wallet.GET("/transactions", d.walletHandler.GetStatement)
			wallet.PUT("/pix-key", d.walletHandler.SavePixKey)
			wallet.POST("/withdrawals", middleware.IdempotencyMiddleware(), d.walletHandler.RequestWithdrawal)
			wallet.GET("/withdrawals", d.walletHandler.ListWithdrawals)
		}

		// Gateway callbacks (internal)
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/payments", d.webhookHandler.HandlePaymentConfirmed)
		}

		// Admin routes (protected, super-admin only)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireSuperAdmin())
		{
			admin.GET("/payouts", d.adminHandler.ListPendingPayouts)
			admin.POST("/payouts/:id/approve", d.adminHandler.ApprovePayout)
			admin.POST("/payouts/:id/reject", d.adminHandler.RejectPayout)
			admin.GET("/reconciliation", d.adminHandler.GetReconciliation)
		}
	}
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID, Idempotency-Key")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "cotahub-backend",
			"version": "0.1.0",
		})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
