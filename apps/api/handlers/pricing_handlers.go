package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/interfaces"
	"github.com/mintroai/payment-service/libs/go/types/api/requests"
)

// PricingHandler prices contract deployments
type PricingHandler struct {
	pricing     interfaces.PricingService
	deployments interfaces.DeploymentService
}

// Use types from the centralized packages
type CalculatePriceRequest = requests.CalculatePriceRequest
type EstimatePriceRequest = requests.EstimatePriceRequest

// NewPricingHandler creates a handler with interface dependencies
func NewPricingHandler(pricing interfaces.PricingService, deployments interfaces.DeploymentService) *PricingHandler {
	return &PricingHandler{pricing: pricing, deployments: deployments}
}

// Calculate godoc
// @Summary Price a contract deployment
// @Description The native token amount is omitted when the price oracle is unavailable
// @Tags pricing
// @Accept json
// @Produce json
// @Param body body CalculatePriceRequest true "Contract and optional network"
// @Success 200 {object} business.PriceCalculation
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /calculate [post]
func (h *PricingHandler) Calculate(c *gin.Context) {
	var req CalculatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, err)
		return
	}

	spec, err := req.ContractData.ToBusiness()
	if err != nil {
		sendError(c, err)
		return
	}

	calculation, err := h.deployments.Calculate(c.Request.Context(), spec, req.Network)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, calculation)
}

// Estimate godoc
// @Summary Estimate a deployment fee from the contract type and features
// @Tags pricing
// @Accept json
// @Produce json
// @Param body body EstimatePriceRequest true "Contract type and features"
// @Success 200 {object} business.PriceCalculation
// @Failure 400 {object} ErrorResponse
// @Router /estimate [post]
func (h *PricingHandler) Estimate(c *gin.Context) {
	var req EstimatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, err)
		return
	}

	spec, err := req.ToBusiness()
	if err != nil {
		sendError(c, err)
		return
	}

	calculation, err := h.deployments.Estimate(c.Request.Context(), spec, req.Network)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, calculation)
}

// PricingInfo godoc
// @Summary Describe the fee schedule
// @Tags pricing
// @Produce json
// @Success 200 {object} business.PricingSchedule
// @Router /pricing-info [get]
func (h *PricingHandler) PricingInfo(c *gin.Context) {
	sendSuccess(c, http.StatusOK, h.pricing.Schedule())
}
