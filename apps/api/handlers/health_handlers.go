package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/types/api/responses"
)

type HealthHandler struct {
	now func() time.Time
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Use types from the centralized packages
type HealthResponse = responses.HealthResponse

// Health godoc
// @Summary Check the health of the server
// @Description Returns a simple "healthy" status
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Service:   constants.ServiceName,
		Version:   constants.ServiceVersion,
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}
