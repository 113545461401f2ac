package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/handlers"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

// Deps holds everything the HTTP surface needs.
type Deps struct {
	ServiceName string

	Intents     handlers.IntentIssuer
	References  handlers.ReferenceGenerator
	Recorder    handlers.CompletionRecorder
	Status      handlers.StatusReader
	Settlements handlers.SettlementTrigger
	Health      handlers.HealthChecker

	// Auth guards the user-scoped routes.
	Auth gin.HandlerFunc

	// AllowManualTrigger registers POST /payments/complete-payment/:paymentId.
	AllowManualTrigger bool
}

func NewRouter(d Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		telemetry.Logger.Error("Recovered from panic",
			zap.Any("panic", recovered),
			zap.String("path", c.Request.URL.Path),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Something went wrong!"})
	}))
	r.Use(telemetry.TracingMiddleware())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Route not found"})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check
	r.GET("/health", handlers.NewHealthHandler(d.ServiceName, d.Health).Health)

	// Payment routes
	paymentHandler := handlers.NewPaymentHandler(d.Intents, d.References, d.Recorder)
	stateHandler := handlers.NewPaymentStateHandler(d.Status, d.Settlements)

	payments := r.Group("/payments")
	payments.POST("/intent", paymentHandler.CreateIntent)
	payments.POST("/upi", paymentHandler.InitiateUPI)
	payments.POST("/qr", paymentHandler.GenerateQR)
	payments.POST("/bank-transfer", paymentHandler.InitiateBankTransfer)
	payments.GET("/status/:paymentId", stateHandler.GetPaymentStatus)
	if d.AllowManualTrigger {
		payments.POST("/complete-payment/:paymentId", stateHandler.TriggerCompletion)
	}
	payments.POST("/webhook", stateHandler.Webhook)

	authed := payments.Group("")
	if d.Auth != nil {
		authed.Use(d.Auth)
	}
	authed.POST("/complete", paymentHandler.CompletePayment)
	authed.GET("/history", paymentHandler.History)

	return r
}
