package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every route onto a gin engine with request ID, access
// logging and panic recovery.
func NewRouter(
	logger *zap.Logger,
	taxHandler *TaxHandler,
	auditHandler *AuditHandler,
	documentHandler *DocumentHandler,
) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Recovery(logger), AccessLog(logger))

	// Configure max multipart memory (32 MB)
	router.MaxMultipartMemory = 32 << 20

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "ITR Audit Engine",
		})
	})

	api := router.Group("/api/v1")
	{
		tax := api.Group("/tax")
		{
			tax.GET("/slabs", taxHandler.Slabs)
			tax.POST("/compare", taxHandler.Compare)
		}

		itr := api.Group("/itr")
		{
			itr.POST("/audit", auditHandler.Audit)
			itr.POST("/audit/batch", auditHandler.AuditBatch)
			itr.POST("/audit/documents", documentHandler.AuditDocuments)
		}

		documents := api.Group("/documents")
		{
			documents.POST("/analyze", documentHandler.Analyze)
		}
	}

	return router
}
