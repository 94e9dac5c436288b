package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/interfaces"
	"github.com/mintroai/payment-service/libs/go/types/api/responses"
)

// NetworkHandler serves the static network registry
type NetworkHandler struct {
	registry interfaces.NetworkRegistry
}

// Use types from the centralized packages
type NetworkResponse = responses.NetworkResponse

// NewNetworkHandler creates a handler with interface dependencies
func NewNetworkHandler(registry interfaces.NetworkRegistry) *NetworkHandler {
	return &NetworkHandler{registry: registry}
}

// ListNetworks godoc
// @Summary List supported networks
// @Tags networks
// @Produce json
// @Success 200 {array} NetworkResponse
// @Router /networks [get]
func (h *NetworkHandler) ListNetworks(c *gin.Context) {
	sendSuccess(c, http.StatusOK, responses.NewNetworkListResponse(h.registry.All()))
}

// GetNetwork godoc
// @Summary Look up a network by chain id
// @Description Unsupported chain ids are reported with supported=false, not as an error
// @Tags networks
// @Produce json
// @Param chain_id path int true "Chain ID"
// @Success 200 {object} business.NetworkInfo
// @Failure 400 {object} ErrorResponse
// @Router /networks/{chain_id} [get]
func (h *NetworkHandler) GetNetwork(c *gin.Context) {
	chainID, err := strconv.ParseInt(c.Param("chain_id"), 10, 64)
	if err != nil {
		sendError(c, apperrors.Wrap(apperrors.CodeInvalidField, "Invalid chain ID format", err).
			WithDetails(apperrors.DetailFields, []string{"chain_id"}))
		return
	}

	sendSuccess(c, http.StatusOK, h.registry.NetworkInfo(chainID))
}
