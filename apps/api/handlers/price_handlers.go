package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/interfaces"
	"github.com/mintroai/payment-service/libs/go/types/api/responses"
)

// PriceHandler serves cached native token prices
type PriceHandler struct {
	registry interfaces.NetworkRegistry
	oracle   interfaces.PriceOracle
}

// Use types from the centralized packages
type PriceResponse = responses.PriceResponse

// NewPriceHandler creates a handler with interface dependencies
func NewPriceHandler(registry interfaces.NetworkRegistry, oracle interfaces.PriceOracle) *PriceHandler {
	return &PriceHandler{registry: registry, oracle: oracle}
}

// GetPrice godoc
// @Summary Get the USD price of a network's gas token
// @Tags prices
// @Produce json
// @Param network path string true "Network key"
// @Success 200 {object} PriceResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /price/{network} [get]
func (h *PriceHandler) GetPrice(c *gin.Context) {
	snapshot, err := h.oracle.GetPrice(c.Request.Context(), c.Param("network"))
	if err != nil {
		sendError(c, err)
		return
	}

	// GetPrice succeeded, so the key is registered
	network, _ := h.registry.LookupByKey(c.Param("network"))
	sendSuccess(c, http.StatusOK, responses.NewPriceResponse(network, *snapshot))
}

// GetAllPrices godoc
// @Summary Get prices for every supported network
// @Description Networks whose price could not be fetched carry an error instead of a price
// @Tags prices
// @Produce json
// @Success 200 {object} map[string]responses.PriceEntry
// @Router /prices [get]
func (h *PriceHandler) GetAllPrices(c *gin.Context) {
	results := h.oracle.GetAllPrices(c.Request.Context())

	prices := make(map[string]responses.PriceEntry, len(results))
	for key, result := range results {
		network, ok := h.registry.LookupByKey(key)
		if !ok {
			continue
		}
		prices[key] = responses.NewPriceEntry(network, result)
	}
	sendSuccess(c, http.StatusOK, prices)
}
