package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/logger"
	"github.com/mintroai/payment-service/libs/go/middleware"
	"github.com/mintroai/payment-service/libs/go/types/api/responses"
	"go.uber.org/zap"
)

// Use types from the centralized packages
type ErrorResponse = responses.ErrorResponse
type ErrorDetail = responses.ErrorDetail

const (
	internalErrorCode    = "INTERNAL_ERROR"
	internalErrorMessage = "Internal server error"
)

// statusForCode maps an error code to its HTTP status
func statusForCode(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalidContractSpec,
		apperrors.CodeUnsupportedContractType,
		apperrors.CodeMissingField,
		apperrors.CodeInvalidField:
		return http.StatusBadRequest
	case apperrors.CodeNetworkNotSupported:
		return http.StatusNotFound
	case apperrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case apperrors.CodeOracleUnavailable,
		apperrors.CodePriceUnavailable,
		apperrors.CodeInvalidUnitPrice:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// sendError logs err and writes the error envelope. Errors outside the
// apperrors taxonomy are reported as a generic 500 without their message.
func sendError(c *gin.Context, err error) {
	correlationID := middleware.GetCorrelationID(c)

	detail := responses.ErrorDetail{Code: internalErrorCode, Message: internalErrorMessage}
	status := http.StatusInternalServerError
	if appErr, ok := apperrors.As(err); ok {
		status = statusForCode(appErr.Code)
		detail = responses.ErrorDetail{
			Code:    string(appErr.Code),
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	fields := []zap.Field{
		zap.Error(err),
		zap.String("code", detail.Code),
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.String("correlation_id", correlationID),
	}
	log := logger.ForComponent(logger.ComponentAPI)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", fields...)
	} else {
		log.Warn("Request failed", fields...)
	}

	c.JSON(status, ErrorResponse{
		Success:       false,
		Error:         detail,
		CorrelationID: correlationID,
	})
}

// sendBindError reports a request body that could not be decoded
func sendBindError(c *gin.Context, err error) {
	sendError(c, apperrors.Wrap(apperrors.CodeInvalidField, "Invalid request body", err))
}

// sendSuccess wraps data in the success envelope
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, responses.Envelope{Success: true, Data: data})
}
