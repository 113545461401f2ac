package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akylbek/payment-system/checkout-payments/internal/middleware"
	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/service"
)

type PaymentHandler struct {
	intents    IntentIssuer
	references ReferenceGenerator
	recorder   CompletionRecorder
}

func NewPaymentHandler(intents IntentIssuer, references ReferenceGenerator, recorder CompletionRecorder) *PaymentHandler {
	return &PaymentHandler{
		intents:    intents,
		references: references,
		recorder:   recorder,
	}
}

type intentRequest struct {
	Amount   models.RawAmount `json:"amount"`
	Currency string           `json:"currency"`
}

type upiRequest struct {
	Amount    models.RawAmount  `json:"amount"`
	UpiID     string            `json:"upiId"`
	LineItems []models.LineItem `json:"lineItems"`
}

type qrRequest struct {
	Amount models.RawAmount `json:"amount"`
}

type bankTransferRequest struct {
	Amount      models.RawAmount    `json:"amount"`
	BankDetails *models.BankDetails `json:"bankDetails"`
	LineItems   []models.LineItem   `json:"lineItems"`
}

type completeRequest struct {
	Amount            models.RawAmount     `json:"amount"`
	Method            models.PaymentMethod `json:"method"`
	ProviderPaymentID string               `json:"providerPaymentId"`
	LineItems         []models.LineItem    `json:"lineItems"`
}

// CreateIntent handles POST /payments/intent
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req intentRequest
	if !bindJSON(c, &req) {
		return
	}

	intent, err := h.intents.CreateIntent(c.Request.Context(), service.IntentRequest{
		Amount:   req.Amount,
		Currency: req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "clientSecret": intent.ClientSecret})
}

// InitiateUPI handles POST /payments/upi
func (h *PaymentHandler) InitiateUPI(c *gin.Context) {
	var req upiRequest
	if !bindJSON(c, &req) {
		return
	}

	ref, err := h.references.Generate(c.Request.Context(), service.ReferenceRequest{
		Amount:    req.Amount,
		Method:    models.MethodUPI,
		UpiID:     req.UpiID,
		LineItems: req.LineItems,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "UPI payment initiated",
		"paymentId": ref.PaymentID,
	})
}

// GenerateQR handles POST /payments/qr
func (h *PaymentHandler) GenerateQR(c *gin.Context) {
	var req qrRequest
	if !bindJSON(c, &req) {
		return
	}

	ref, err := h.references.Generate(c.Request.Context(), service.ReferenceRequest{
		Amount: req.Amount,
		Method: models.MethodQR,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"paymentId": ref.PaymentID,
		"qrImage":   ref.QRImage,
	})
}

// InitiateBankTransfer handles POST /payments/bank-transfer
func (h *PaymentHandler) InitiateBankTransfer(c *gin.Context) {
	var req bankTransferRequest
	if !bindJSON(c, &req) {
		return
	}

	ref, err := h.references.Generate(c.Request.Context(), service.ReferenceRequest{
		Amount:      req.Amount,
		Method:      models.MethodBank,
		BankDetails: req.BankDetails,
		LineItems:   req.LineItems,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Bank transfer initiated",
		"paymentId": ref.PaymentID,
	})
}

// CompletePayment handles POST /payments/complete for the authenticated caller
func (h *PaymentHandler) CompletePayment(c *gin.Context) {
	var req completeRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.recorder.Record(c.Request.Context(), middleware.UserID(c), service.CompletionRequest{
		Amount:            req.Amount,
		Method:            req.Method,
		ProviderPaymentID: req.ProviderPaymentID,
		LineItems:         req.LineItems,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "payment": payment})
}

// History handles GET /payments/history for the authenticated caller
func (h *PaymentHandler) History(c *gin.Context) {
	payments, err := h.recorder.History(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "payments": payments})
}
