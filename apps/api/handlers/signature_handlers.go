package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/interfaces"
	"github.com/mintroai/payment-service/libs/go/types/api/requests"
	"github.com/mintroai/payment-service/libs/go/types/api/responses"
)

// SignatureHandler issues and verifies deployment authorizations
type SignatureHandler struct {
	deployments interfaces.DeploymentService
}

// Use types from the centralized packages
type PrepareDeploymentRequest = requests.PrepareDeploymentRequest
type VerifySignatureRequest = requests.VerifySignatureRequest

// NewSignatureHandler creates a handler with interface dependencies
func NewSignatureHandler(deployments interfaces.DeploymentService) *SignatureHandler {
	return &SignatureHandler{deployments: deployments}
}

// Prepare godoc
// @Summary Price a deployment and sign the payment authorization
// @Description Fails when the token price cannot be fetched; a fee is never signed against a guessed price
// @Tags signature
// @Accept json
// @Produce json
// @Param body body PrepareDeploymentRequest true "Contract, bytecode and deployer"
// @Success 200 {object} responses.PrepareDeploymentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /signature/prepare [post]
func (h *SignatureHandler) Prepare(c *gin.Context) {
	var req PrepareDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, err)
		return
	}

	p, err := req.ToParams()
	if err != nil {
		sendError(c, err)
		return
	}

	prepared, err := h.deployments.Prepare(c.Request.Context(), p)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewPrepareDeploymentResponse(prepared))
}

// Verify godoc
// @Summary Check a deployment signature against this service's signer
// @Description A signature from another key is reported as valid=false
// @Tags signature
// @Accept json
// @Produce json
// @Param body body VerifySignatureRequest true "Deployment data and signature"
// @Success 200 {object} responses.VerifySignatureResponse
// @Failure 400 {object} ErrorResponse
// @Router /signature/verify [post]
func (h *SignatureHandler) Verify(c *gin.Context) {
	var req VerifySignatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendBindError(c, err)
		return
	}

	data, signature, err := req.ToBusiness()
	if err != nil {
		sendError(c, err)
		return
	}

	result, err := h.deployments.Verify(data, signature)
	if err != nil {
		sendError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, responses.NewVerifySignatureResponse(result))
}

// SignerInfo godoc
// @Summary Describe the signing key
// @Tags signature
// @Produce json
// @Success 200 {object} responses.SignerInfoResponse
// @Router /signature/signer [get]
func (h *SignatureHandler) SignerInfo(c *gin.Context) {
	sendSuccess(c, http.StatusOK, responses.NewSignerInfoResponse(h.deployments.SignerInfo()))
}
