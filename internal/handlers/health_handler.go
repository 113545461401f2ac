package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	service string
	checker HealthChecker
}

func NewHealthHandler(service string, checker HealthChecker) *HealthHandler {
	return &HealthHandler{service: service, checker: checker}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	if h.checker == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
		return
	}

	res := h.checker.Check(c.Request.Context())
	if !res.OK {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "service": h.service, "checks": res.Checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service, "checks": res.Checks})
}
