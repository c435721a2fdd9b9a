package handler

import (
	"net/http"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/Aashish23092/itr-audit-engine/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditHandler struct {
	maxBatchAudits int
	concurrency    int
	logger         *zap.Logger
}

func NewAuditHandler(maxBatchAudits, concurrency int, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		maxBatchAudits: maxBatchAudits,
		concurrency:    concurrency,
		logger:         logger,
	}
}

// Audit handles POST /itr/audit
func (h *AuditHandler) Audit(c *gin.Context) {
	var req dto.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, codeInvalidRequest, "Invalid audit request", err)
		return
	}

	result := service.AnalyzeITR(req.ITR, req.AIS, req.Form26AS, req.PreviousITR)
	h.logger.Debug("audit completed",
		zap.String("request_id", requestID(c)),
		zap.String("risk_score", string(result.RiskScore)),
		zap.Int("issues", len(result.Issues)),
	)
	c.JSON(http.StatusOK, result)
}

// AuditBatch handles POST /itr/audit/batch
func (h *AuditHandler) AuditBatch(c *gin.Context) {
	var req dto.BatchAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, codeInvalidRequest, "Invalid batch audit request", err)
		return
	}
	if err := req.Validate(h.maxBatchAudits); err != nil {
		sendServiceError(c, h.logger, "audit returns", err)
		return
	}

	results, err := service.AnalyzeBatch(c.Request.Context(), req.Audits, h.concurrency)
	if err != nil {
		sendServiceError(c, h.logger, "audit returns", err)
		return
	}
	c.JSON(http.StatusOK, dto.BatchAuditResponse{Results: results})
}
