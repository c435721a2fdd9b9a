package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Aashish23092/itr-audit-engine/client"
	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	codeInvalidRequest  = "INVALID_REQUEST"
	codeNotFinancial    = "NOT_FINANCIAL_DOCUMENT"
	codeFileTooLarge    = "FILE_TOO_LARGE"
	codeInternalError   = "INTERNAL_ERROR"
	codeRequestTimedOut = "REQUEST_TIMEOUT"
)

// sendError sends a structured error response
func sendError(c *gin.Context, logger *zap.Logger, statusCode int, code, message string, err error) {
	if err != nil {
		logger.Warn(message,
			zap.String("request_id", requestID(c)),
			zap.Int("status", statusCode),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(statusCode, dto.ErrorResponse{
		Error:   code,
		Message: message,
		Code:    statusCode,
	})
}

// sendServiceError maps a service or extractor error to a status code and a
// message that is safe to show to the caller. The raw error is only logged.
func sendServiceError(c *gin.Context, logger *zap.Logger, operation string, err error) {
	statusCode, code, message := classifyServiceError(operation, err)
	sendError(c, logger, statusCode, code, message, err)
}

func classifyServiceError(operation string, err error) (int, string, string) {
	switch {
	case errors.Is(err, dto.ErrInvalidDocumentType),
		errors.Is(err, dto.ErrEmptyDocument),
		errors.Is(err, dto.ErrMissingITR),
		errors.Is(err, dto.ErrEmptyBatch),
		errors.Is(err, dto.ErrTooManyAudits):
		return http.StatusBadRequest, codeInvalidRequest, err.Error()
	case errors.Is(err, dto.ErrNotFinancialDocument):
		return http.StatusUnprocessableEntity, codeNotFinancial, "The uploaded file does not look like a financial document."
	}

	var extErr *client.ExtractionError
	if errors.As(err, &extErr) {
		switch extErr.Code {
		case client.ErrNotConfigured:
			return http.StatusServiceUnavailable, string(extErr.Code), "Document analysis is not configured on this server."
		case client.ErrExtractorRateLimited:
			return http.StatusTooManyRequests, string(extErr.Code), "Too many requests. Please wait a moment and try again."
		case client.ErrExtractorTimeout:
			return http.StatusGatewayTimeout, string(extErr.Code), "Request timed out. Please try again."
		case client.ErrInvalidReply:
			return http.StatusBadGateway, string(extErr.Code), "Unable to " + operation + ". The document could not be read."
		default:
			return http.StatusBadGateway, string(extErr.Code), "Connection issue. Please try again later."
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, codeRequestTimedOut, "Request timed out. Please try again."
	}
	return http.StatusInternalServerError, codeInternalError, "Unable to " + operation + "."
}
