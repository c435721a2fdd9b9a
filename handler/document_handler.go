package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/Aashish23092/itr-audit-engine/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var errFileTooLarge = errors.New("file exceeds the maximum upload size")

type DocumentHandler struct {
	documentService *service.DocumentService
	maxFileSize     int64
	logger          *zap.Logger
}

func NewDocumentHandler(documentService *service.DocumentService, maxFileSize int64, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		maxFileSize:     maxFileSize,
		logger:          logger,
	}
}

// Analyze handles POST /documents/analyze
func (h *DocumentHandler) Analyze(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		sendError(c, h.logger, http.StatusBadRequest, codeInvalidRequest, "A file is required", err)
		return
	}

	doc, err := h.readUpload(fileHeader, dto.DocumentType(c.PostForm("document_type")))
	if err != nil {
		h.sendUploadError(c, err)
		return
	}
	doc.Password = c.PostForm("password")

	resp, err := h.documentService.Analyze(c.Request.Context(), *doc)
	if err != nil {
		sendServiceError(c, h.logger, "analyze document", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AuditDocuments handles POST /itr/audit/documents. Only the itr part is
// required; ais, form_26as and previous_itr are optional.
func (h *DocumentHandler) AuditDocuments(c *gin.Context) {
	var set dto.DocumentAuditSet
	slots := []struct {
		field   string
		docType dto.DocumentType
		target  **dto.UploadedDocument
	}{
		{"itr", dto.DocTypeTaxReturn, &set.ITR},
		{"ais", dto.DocTypeAIS, &set.AIS},
		{"form_26as", dto.DocTypeForm26AS, &set.Form26AS},
		{"previous_itr", dto.DocTypeTaxReturn, &set.PreviousITR},
	}

	for _, slot := range slots {
		fileHeader, err := c.FormFile(slot.field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			sendError(c, h.logger, http.StatusBadRequest, codeInvalidRequest, "Invalid multipart form", err)
			return
		}

		doc, err := h.readUpload(fileHeader, slot.docType)
		if err != nil {
			h.sendUploadError(c, err)
			return
		}
		doc.Password = c.PostForm(slot.field + "_password")
		*slot.target = doc
	}

	resp, err := h.documentService.AuditDocuments(c.Request.Context(), set)
	if err != nil {
		sendServiceError(c, h.logger, "audit documents", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *DocumentHandler) readUpload(fileHeader *multipart.FileHeader, docType dto.DocumentType) (*dto.UploadedDocument, error) {
	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return nil, errFileTooLarge
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fileHeader.Filename, err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fileHeader.Filename, err)
	}

	return &dto.UploadedDocument{
		FileName: fileHeader.Filename,
		DocType:  docType,
		MimeType: fileHeader.Header.Get("Content-Type"),
		Content:  content,
	}, nil
}

func (h *DocumentHandler) sendUploadError(c *gin.Context, err error) {
	if errors.Is(err, errFileTooLarge) {
		msg := fmt.Sprintf("File exceeds the maximum size of %d MB", h.maxFileSize/(1024*1024))
		sendError(c, h.logger, http.StatusRequestEntityTooLarge, codeFileTooLarge, msg, err)
		return
	}
	sendError(c, h.logger, http.StatusBadRequest, codeInvalidRequest, "Failed to read uploaded file", err)
}
