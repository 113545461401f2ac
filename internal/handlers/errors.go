package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/akylbek/payment-system/checkout-payments/internal/models"
	"github.com/akylbek/payment-system/checkout-payments/internal/telemetry"
)

const genericFailure = "Something went wrong!"

func errorResponse(err error) (int, string) {
	var (
		verr *models.ValidationError
		perr *models.ProviderError
	)
	switch {
	case errors.Is(err, models.ErrInvalidAmount):
		return http.StatusBadRequest, "Invalid amount"
	case errors.Is(err, models.ErrInvalidUpiID):
		return http.StatusBadRequest, "Invalid UPI ID"
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Error()
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized, "Unauthenticated"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "Payment not found"
	case errors.Is(err, models.ErrConflictingTransition):
		return http.StatusConflict, "Payment already reached a different final status"
	case errors.As(err, &perr):
		return http.StatusBadGateway, perr.Message
	default:
		return http.StatusInternalServerError, genericFailure
	}
}

func respondError(c *gin.Context, err error) {
	code, msg := errorResponse(err)
	if code >= http.StatusInternalServerError {
		telemetry.Logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.JSON(code, gin.H{"success": false, "message": msg})
}

// bindJSON decodes the request body, treating an empty body as an empty object.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		telemetry.Logger.Debug("Error decoding request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
		return false
	}
	return true
}
