package dto

import "errors"

// Custom errors
var (
	ErrInvalidDocumentType  = errors.New("invalid document type")
	ErrEmptyDocument        = errors.New("document is empty")
	ErrNotFinancialDocument = errors.New("document is not a financial document")
	ErrMissingITR           = errors.New("an ITR document is required")
	ErrEmptyBatch           = errors.New("at least one audit is required")
	ErrTooManyAudits        = errors.New("too many audits in one batch")
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type BatchAuditResponse struct {
	Results []AuditResult `json:"results"`
}

// DocumentAnalysisResponse is returned by POST /documents/analyze.
type DocumentAnalysisResponse struct {
	FileName   string            `json:"file_name"`
	DocType    DocumentType      `json:"doc_type"`
	Extraction *ExtractionResult `json:"extraction"`
	Comparison *RegimeComparison `json:"comparison,omitempty"`
	AnalyzedAt string            `json:"analyzed_at"`
}

// DocumentAuditResponse is the audit of uploaded documents together with the
// figures that were mapped out of them.
type DocumentAuditResponse struct {
	ITR         ITRData      `json:"itr"`
	AIS         AISData      `json:"ais"`
	Form26AS    Form26ASData `json:"form_26as"`
	PreviousITR *ITRData     `json:"previous_itr,omitempty"`
	Audit       AuditResult  `json:"audit"`
	ProcessedAt string       `json:"processed_at"`
}
