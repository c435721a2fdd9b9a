package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/Aashish23092/itr-audit-engine/utils"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// minTextChars is how much text a PDF must yield before the text layer is
// sent instead of the raw file.
const minTextChars = 20

const mimePDF = "application/pdf"

type DocumentService struct {
	extractor    DocumentExtractor
	pdfProcessor PDFProcessor
	tables       *TaxTables
	logger       *zap.Logger
	now          func() time.Time
}

func NewDocumentService(
	extractor DocumentExtractor,
	pdfProcessor PDFProcessor,
	tables *TaxTables,
	logger *zap.Logger,
) *DocumentService {
	if tables == nil {
		tables = DefaultTaxTables()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{
		extractor:    extractor,
		pdfProcessor: pdfProcessor,
		tables:       tables,
		logger:       logger,
		now:          time.Now,
	}
}

// Analyze extracts a single document and, when it reports any income, compares
// the two regimes for it using the default deduction profile.
func (s *DocumentService) Analyze(ctx context.Context, doc dto.UploadedDocument) (*dto.DocumentAnalysisResponse, error) {
	result, err := s.extract(ctx, &doc)
	if err != nil {
		return nil, err
	}

	resp := &dto.DocumentAnalysisResponse{
		FileName:   doc.FileName,
		DocType:    doc.DocType,
		Extraction: result,
		AnalyzedAt: s.now().UTC().Format(time.RFC3339),
	}

	totalIncome, salaryIncome := utils.ComparatorIncome(result)
	if totalIncome.IsPositive() {
		comparison := CompareRegimes(s.tables, totalIncome, dto.DefaultDeductionProfile(), salaryIncome)
		resp.Comparison = &comparison
	}
	return resp, nil
}

// AuditDocuments extracts every supplied document concurrently, maps them into
// the audit inputs and runs AnalyzeITR. Only the ITR is required.
func (s *DocumentService) AuditDocuments(ctx context.Context, set dto.DocumentAuditSet) (*dto.DocumentAuditResponse, error) {
	if set.ITR == nil {
		return nil, dto.ErrMissingITR
	}

	var itrResult, aisResult, form26ASResult, previousResult *dto.ExtractionResult

	g, gctx := errgroup.WithContext(ctx)
	s.extractInto(gctx, g, "itr", set.ITR, dto.DocTypeTaxReturn, &itrResult)
	s.extractInto(gctx, g, "ais", set.AIS, dto.DocTypeAIS, &aisResult)
	s.extractInto(gctx, g, "form_26as", set.Form26AS, dto.DocTypeForm26AS, &form26ASResult)
	s.extractInto(gctx, g, "previous_itr", set.PreviousITR, dto.DocTypeTaxReturn, &previousResult)
	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &dto.DocumentAuditResponse{}
	var err error

	if resp.ITR, err = utils.MapITRData(itrResult); err != nil {
		return nil, fmt.Errorf("itr: %w", err)
	}
	if aisResult != nil {
		if resp.AIS, err = utils.MapAISData(aisResult); err != nil {
			return nil, fmt.Errorf("ais: %w", err)
		}
	}
	if form26ASResult != nil {
		if resp.Form26AS, err = utils.MapForm26ASData(form26ASResult); err != nil {
			return nil, fmt.Errorf("form_26as: %w", err)
		}
	}
	if previousResult != nil {
		previous, err := utils.MapITRData(previousResult)
		if err != nil {
			return nil, fmt.Errorf("previous_itr: %w", err)
		}
		resp.PreviousITR = &previous
	}

	resp.Audit = AnalyzeITR(resp.ITR, resp.AIS, resp.Form26AS, resp.PreviousITR)
	resp.ProcessedAt = s.now().UTC().Format(time.RFC3339)

	s.logger.Info("document audit completed",
		zap.String("risk_score", string(resp.Audit.RiskScore)),
		zap.Int("issues", len(resp.Audit.Issues)),
	)
	return resp, nil
}

func (s *DocumentService) extractInto(
	ctx context.Context,
	g *errgroup.Group,
	slot string,
	doc *dto.UploadedDocument,
	defaultType dto.DocumentType,
	out **dto.ExtractionResult,
) {
	if doc == nil {
		return
	}
	d := *doc
	if d.DocType == "" {
		d.DocType = defaultType
	}
	g.Go(func() error {
		result, err := s.extract(ctx, &d)
		if err != nil {
			return fmt.Errorf("%s: %w", slot, err)
		}
		*out = result
		return nil
	})
}

// extract validates doc, normalises its name and MIME type in place and calls
// the extractor.
func (s *DocumentService) extract(ctx context.Context, doc *dto.UploadedDocument) (*dto.ExtractionResult, error) {
	if !doc.DocType.IsValid() {
		return nil, dto.ErrInvalidDocumentType
	}
	if len(doc.Content) == 0 {
		return nil, dto.ErrEmptyDocument
	}

	doc.FileName = utils.SanitizeFileName(doc.FileName)
	if doc.MimeType == "" {
		doc.MimeType = http.DetectContentType(doc.Content)
	}

	input := dto.ExtractionInput{
		DocType:  doc.DocType,
		FileName: doc.FileName,
		MimeType: doc.MimeType,
	}
	if text, ok := s.pdfText(doc); ok {
		input.Text = text
	} else {
		input.Data = doc.Content
	}

	s.logger.Debug("extracting document",
		zap.String("file_name", doc.FileName),
		zap.String("doc_type", string(doc.DocType)),
		zap.Bool("text_layer", input.Text != ""),
	)

	result, err := s.extractor.Extract(ctx, input)
	if err != nil {
		return nil, err
	}
	if result == nil || !result.IsFinancialDocument {
		return nil, dto.ErrNotFinancialDocument
	}
	return result, nil
}

// pdfText returns the text layer of a PDF when it is substantial enough to
// stand in for the file itself.
func (s *DocumentService) pdfText(doc *dto.UploadedDocument) (string, bool) {
	if s.pdfProcessor == nil || !isPDF(doc) {
		return "", false
	}
	text, err := s.pdfProcessor.ExtractText(doc.Content, doc.Password)
	if err != nil {
		s.logger.Warn("pdf text extraction failed, sending raw file",
			zap.String("file_name", doc.FileName),
			zap.Error(err),
		)
		return "", false
	}
	if utils.CountNonSpace(text) < minTextChars {
		return "", false
	}
	return text, true
}

func isPDF(doc *dto.UploadedDocument) bool {
	return strings.HasPrefix(doc.MimeType, mimePDF) ||
		strings.HasSuffix(strings.ToLower(doc.FileName), ".pdf")
}
