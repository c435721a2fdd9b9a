package dto

type DocumentType string

const (
	DocTypeBankStatement DocumentType = "bank_statement"
	DocTypeForm16        DocumentType = "form_16"
	DocTypeLedger        DocumentType = "ledger"
	DocTypeTaxReturn     DocumentType = "tax_return"
	DocTypeAIS           DocumentType = "ais"
	DocTypeForm26AS      DocumentType = "form_26as"
	DocTypeITRCOI        DocumentType = "itr_coi"
	DocTypeOther         DocumentType = "other"
)

var validDocumentTypes = map[DocumentType]bool{
	DocTypeBankStatement: true,
	DocTypeForm16:        true,
	DocTypeLedger:        true,
	DocTypeTaxReturn:     true,
	DocTypeAIS:           true,
	DocTypeForm26AS:      true,
	DocTypeITRCOI:        true,
	DocTypeOther:         true,
}

// IsValid reports whether t is one of the document types the extractor accepts.
func (t DocumentType) IsValid() bool {
	return validDocumentTypes[t]
}

// UploadedDocument is a single file received from the client.
type UploadedDocument struct {
	FileName string       `json:"file_name"`
	DocType  DocumentType `json:"doc_type"`
	MimeType string       `json:"mime_type,omitempty"`
	Password string       `json:"-"`
	Content  []byte       `json:"-"`
}

// ExtractionInput is what gets sent to the document-extraction service.
// Exactly one of Text or Data is set.
type ExtractionInput struct {
	DocType  DocumentType
	FileName string
	MimeType string
	Text     string
	Data     []byte
}

// DocumentAuditSet groups the uploads needed for a document-driven ITR audit.
type DocumentAuditSet struct {
	ITR         *UploadedDocument
	AIS         *UploadedDocument
	Form26AS    *UploadedDocument
	PreviousITR *UploadedDocument
}
