package handler

import (
	"net/http"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/Aashish23092/itr-audit-engine/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaxHandler struct {
	tables *service.TaxTables
	logger *zap.Logger
}

func NewTaxHandler(tables *service.TaxTables, logger *zap.Logger) *TaxHandler {
	if tables == nil {
		tables = service.DefaultTaxTables()
	}
	return &TaxHandler{tables: tables, logger: logger}
}

// Slabs handles GET /tax/slabs
func (h *TaxHandler) Slabs(c *gin.Context) {
	c.JSON(http.StatusOK, h.tables)
}

// Compare handles POST /tax/compare. Deduction fields left out of the body
// keep their default values.
func (h *TaxHandler) Compare(c *gin.Context) {
	req := dto.NewTaxComparisonRequest()
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, h.logger, http.StatusBadRequest, codeInvalidRequest, "Invalid tax comparison request", err)
		return
	}

	comparison := service.CompareRegimes(h.tables, req.TotalIncome, req.Deductions, req.SalaryIncome)
	c.JSON(http.StatusOK, comparison)
}
