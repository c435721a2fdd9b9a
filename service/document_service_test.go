package service_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/Aashish23092/itr-audit-engine/service"
	"github.com/Aashish23092/itr-audit-engine/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fakePDF struct {
	mu        sync.Mutex
	text      string
	err       error
	passwords []string
}

func (f *fakePDF) ExtractText(_ []byte, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords = append(f.passwords, password)
	return f.text, f.err
}

func amount(v float64) *dto.Amount {
	a := dto.Amount(v)
	return &a
}

func financial(accounts ...dto.ExtractedAccount) *dto.ExtractionResult {
	return &dto.ExtractionResult{IsFinancialDocument: true, Accounts: accounts}
}

func pdfDoc(name string, docType dto.DocumentType) dto.UploadedDocument {
	return dto.UploadedDocument{
		FileName: name,
		DocType:  docType,
		MimeType: "application/pdf",
		Content:  []byte("%PDF-1.7 fake"),
	}
}

func TestDocumentService_Analyze(t *testing.T) {
	longText := strings.Repeat("Salary credit 100000 ", 3)

	tests := []struct {
		name       string
		doc        dto.UploadedDocument
		pdf        *fakePDF
		setupMock  func(m *mocks.MockDocumentExtractor)
		wantErr    error
		wantIncome bool
	}{
		{
			name: "pdf text layer is sent as text",
			doc:  pdfDoc("Form 16 (2024).pdf", dto.DocTypeForm16),
			pdf:  &fakePDF{text: longText},
			setupMock: func(m *mocks.MockDocumentExtractor) {
				m.EXPECT().Extract(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, in dto.ExtractionInput) (*dto.ExtractionResult, error) {
						assert.Equal(t, "Form_16__2024_.pdf", in.FileName)
						assert.Equal(t, longText, in.Text)
						assert.Nil(t, in.Data)
						return financial(dto.ExtractedAccount{
							AccountName: "Gross salary",
							Category:    "salary",
							Amount:      amount(1200000),
						}), nil
					})
			},
			wantIncome: true,
		},
		{
			name: "short pdf text falls back to raw bytes",
			doc:  pdfDoc("scan.pdf", dto.DocTypeBankStatement),
			pdf:  &fakePDF{text: "  \n  page 1 \n"},
			setupMock: func(m *mocks.MockDocumentExtractor) {
				m.EXPECT().Extract(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, in dto.ExtractionInput) (*dto.ExtractionResult, error) {
						assert.Empty(t, in.Text)
						assert.Equal(t, []byte("%PDF-1.7 fake"), in.Data)
						assert.Equal(t, "application/pdf", in.MimeType)
						return financial(), nil
					})
			},
		},
		{
			name: "pdf extraction failure falls back to raw bytes",
			doc:  pdfDoc("locked.pdf", dto.DocTypeAIS),
			pdf:  &fakePDF{err: errors.New("bad password")},
			setupMock: func(m *mocks.MockDocumentExtractor) {
				m.EXPECT().Extract(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, in dto.ExtractionInput) (*dto.ExtractionResult, error) {
						assert.NotEmpty(t, in.Data)
						return financial(), nil
					})
			},
		},
		{
			name:      "invalid document type",
			doc:       pdfDoc("x.pdf", "payslip"),
			pdf:       &fakePDF{},
			setupMock: func(m *mocks.MockDocumentExtractor) {},
			wantErr:   dto.ErrInvalidDocumentType,
		},
		{
			name:      "empty document",
			doc:       dto.UploadedDocument{FileName: "x.pdf", DocType: dto.DocTypeLedger},
			pdf:       &fakePDF{},
			setupMock: func(m *mocks.MockDocumentExtractor) {},
			wantErr:   dto.ErrEmptyDocument,
		},
		{
			name: "not a financial document",
			doc:  pdfDoc("menu.pdf", dto.DocTypeOther),
			pdf:  &fakePDF{text: longText},
			setupMock: func(m *mocks.MockDocumentExtractor) {
				m.EXPECT().Extract(gomock.Any(), gomock.Any()).
					Return(&dto.ExtractionResult{IsFinancialDocument: false}, nil)
			},
			wantErr: dto.ErrNotFinancialDocument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			extractor := mocks.NewMockDocumentExtractor(ctrl)
			tt.setupMock(extractor)

			svc := service.NewDocumentService(extractor, tt.pdf, nil, nil)
			resp, err := svc.Analyze(context.Background(), tt.doc)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, resp)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.doc.DocType, resp.DocType)
			assert.NotEmpty(t, resp.AnalyzedAt)
			if tt.wantIncome {
				require.NotNil(t, resp.Comparison)
				assert.Equal(t, "1200000", resp.Comparison.TotalIncome.String())
				assert.Equal(t, dto.RegimeSimplified, resp.Comparison.BetterRegime)
			} else {
				assert.Nil(t, resp.Comparison)
			}
		})
	}
}

func TestDocumentService_AnalyzeImageSkipsPDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockDocumentExtractor(ctrl)
	pdf := &fakePDF{text: "never used"}

	extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, in dto.ExtractionInput) (*dto.ExtractionResult, error) {
			assert.Equal(t, "image/png", in.MimeType)
			return financial(), nil
		})

	svc := service.NewDocumentService(extractor, pdf, nil, nil)
	_, err := svc.Analyze(context.Background(), dto.UploadedDocument{
		FileName: "",
		DocType:  dto.DocTypeForm16,
		MimeType: "image/png",
		Content:  []byte{0x89, 'P', 'N', 'G'},
	})

	require.NoError(t, err)
	assert.Empty(t, pdf.passwords)
}

func TestDocumentService_PasswordIsPassedToPDF(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockDocumentExtractor(ctrl)
	pdf := &fakePDF{text: strings.Repeat("x", 40)}
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(financial(), nil)

	doc := pdfDoc("ais.pdf", dto.DocTypeAIS)
	doc.Password = "ABCDE1234F"

	svc := service.NewDocumentService(extractor, pdf, nil, nil)
	_, err := svc.Analyze(context.Background(), doc)

	require.NoError(t, err)
	assert.Equal(t, []string{"ABCDE1234F"}, pdf.passwords)
}

func TestDocumentService_AuditDocuments(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockDocumentExtractor(ctrl)

	replies := map[string]*dto.ExtractionResult{
		"itr.pdf": financial(
			dto.ExtractedAccount{AccountName: "Salary", Category: "salary", Amount: amount(600000)},
			dto.ExtractedAccount{AccountName: "Savings interest", Category: "interest", Amount: amount(45000)},
			dto.ExtractedAccount{AccountName: "TDS on salary", Category: "tax_paid", Amount: amount(30000)},
		),
		"ais.pdf": financial(
			dto.ExtractedAccount{AccountName: "Interest from deposits", Category: "interest", Amount: amount(58000)},
		),
		"26as.pdf": financial(
			dto.ExtractedAccount{AccountName: "TDS 192", Category: "tax_paid", Amount: amount(30000)},
		),
	}
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(_ context.Context, in dto.ExtractionInput) (*dto.ExtractionResult, error) {
			return replies[in.FileName], nil
		})

	itr := pdfDoc("itr.pdf", "")
	ais := pdfDoc("ais.pdf", "")
	form26AS := pdfDoc("26as.pdf", "")
	svc := service.NewDocumentService(extractor, &fakePDF{}, nil, nil)

	resp, err := svc.AuditDocuments(context.Background(), dto.DocumentAuditSet{
		ITR:      &itr,
		AIS:      &ais,
		Form26AS: &form26AS,
	})
	require.NoError(t, err)

	assert.Equal(t, "45000", resp.ITR.InterestIncome.String())
	assert.Equal(t, "58000", resp.AIS.InterestIncome.String())
	assert.Equal(t, "30000", resp.Form26AS.TotalTDS.String())
	assert.Nil(t, resp.PreviousITR)
	require.Len(t, resp.Audit.Issues, 1)
	assert.Equal(t, "AIS_INT_MISMATCH", resp.Audit.Issues[0].ID)
	assert.Equal(t, dto.RiskHigh, resp.Audit.RiskScore)
	assert.NotEmpty(t, resp.ProcessedAt)
}

func TestDocumentService_AuditDocumentsDefaultsDocTypes(t *testing.T) {
	ctrl := gomock.NewController(t)
	extractor := mocks.NewMockDocumentExtractor(ctrl)

	var mu sync.Mutex
	seen := map[string]dto.DocumentType{}
	extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Times(3).DoAndReturn(
		func(_ context.Context, in dto.ExtractionInput) (*dto.ExtractionResult, error) {
			mu.Lock()
			seen[in.FileName] = in.DocType
			mu.Unlock()
			return financial(), nil
		})

	itr, ais, previous := pdfDoc("a.pdf", ""), pdfDoc("b.pdf", ""), pdfDoc("c.pdf", "")
	svc := service.NewDocumentService(extractor, &fakePDF{}, nil, nil)

	resp, err := svc.AuditDocuments(context.Background(), dto.DocumentAuditSet{
		ITR:         &itr,
		AIS:         &ais,
		PreviousITR: &previous,
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]dto.DocumentType{
		"a.pdf": dto.DocTypeTaxReturn,
		"b.pdf": dto.DocTypeAIS,
		"c.pdf": dto.DocTypeTaxReturn,
	}, seen)
	assert.NotNil(t, resp.PreviousITR)
	assert.True(t, resp.Form26AS.TotalTDS.IsZero())
}

func TestDocumentService_AuditDocumentsErrors(t *testing.T) {
	t.Run("missing itr", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := service.NewDocumentService(mocks.NewMockDocumentExtractor(ctrl), &fakePDF{}, nil, nil)

		_, err := svc.AuditDocuments(context.Background(), dto.DocumentAuditSet{})
		assert.ErrorIs(t, err, dto.ErrMissingITR)
	})

	t.Run("extractor failure names the slot", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		extractor := mocks.NewMockDocumentExtractor(ctrl)
		boom := errors.New("upstream down")
		extractor.EXPECT().Extract(gomock.Any(), gomock.Any()).Return(nil, boom)

		itr := pdfDoc("itr.pdf", "")
		svc := service.NewDocumentService(extractor, &fakePDF{}, nil, nil)

		_, err := svc.AuditDocuments(context.Background(), dto.DocumentAuditSet{ITR: &itr})
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "itr:")
	})
}
