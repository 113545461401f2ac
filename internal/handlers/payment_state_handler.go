package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/service"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

type PaymentStateHandler struct {
	status      StatusReader
	settlements SettlementTrigger
}

func NewPaymentStateHandler(status StatusReader, settlements SettlementTrigger) *PaymentStateHandler {
	return &PaymentStateHandler{status: status, settlements: settlements}
}

// GetPaymentStatus handles GET /payments/status/:paymentId
func (h *PaymentStateHandler) GetPaymentStatus(c *gin.Context) {
	status, err := h.status.GetStatus(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
}

// TriggerCompletion handles POST /payments/complete-payment/:paymentId
func (h *PaymentStateHandler) TriggerCompletion(c *gin.Context) {
	paymentID := c.Param("paymentId")
	if _, err := h.settlements.Trigger(c.Request.Context(), paymentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment completed successfully"})
}

// Webhook handles POST /payments/webhook
func (h *PaymentStateHandler) Webhook(c *gin.Context) {
	var n service.Notification
	if !bindJSON(c, &n) {
		return
	}

	outcome, err := h.settlements.HandleNotification(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}

	telemetry.Logger.Info("Settlement callback processed",
		zap.String("payment_id", n.OrderID),
		zap.String("transaction_status", n.TransactionStatus),
		zap.String("outcome", string(outcome)),
	)
	c.JSON(http.StatusOK, gin.H{"success": true, "status": outcome})
}
