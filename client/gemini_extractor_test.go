package client

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReply = `{
  "is_financial_document": true,
  "accounts": [
    {"account_name": "Salary Credit", "category": "salary", "amount": 150000, "classification": "neutral"}
  ],
  "summary": {"total_income": 150000, "tax_regime": "New"}
}`

func TestParseExtractionReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{name: "bare json", reply: sampleReply},
		{name: "json fence", reply: "```json\n" + sampleReply + "\n```"},
		{name: "plain fence", reply: "```\n" + sampleReply + "\n```"},
		{name: "fence with prose around it", reply: "Here is the analysis:\n```json\n" + sampleReply + "\n```\nLet me know."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ParseExtractionReply(tt.reply)
			require.NoError(t, err)

			assert.True(t, res.IsFinancialDocument)
			require.Len(t, res.Accounts, 1)
			assert.Equal(t, dto.CategorySalary, res.Accounts[0].Category)
			assert.Equal(t, 150000.0, res.Accounts[0].Amount.Float())
			assert.Equal(t, "New", res.Summary.TaxRegime)
		})
	}
}

func TestParseExtractionReply_Invalid(t *testing.T) {
	for _, reply := range []string{"", "   ", "```json\n```", "I could not read this document.", `{"accounts": [}`} {
		_, err := ParseExtractionReply(reply)

		var extErr *ExtractionError
		require.ErrorAs(t, err, &extErr, "reply %q", reply)
		assert.Equal(t, ErrInvalidReply, extErr.Code)
		assert.False(t, extErr.IsRetryable())
	}
}

func TestGeminiExtractor_NotConfigured(t *testing.T) {
	e, err := NewGeminiExtractor(context.Background(), "", "", 0, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, e.model)

	_, err = e.Extract(context.Background(), dto.ExtractionInput{DocType: dto.DocTypeAIS, Text: "x"})

	var extErr *ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, ErrNotConfigured, extErr.Code)
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status        int
		wantCode      ExtractionErrorCode
		wantRetryable bool
	}{
		{status: http.StatusTooManyRequests, wantCode: ErrExtractorRateLimited, wantRetryable: true},
		{status: http.StatusGatewayTimeout, wantCode: ErrExtractorTimeout, wantRetryable: true},
		{status: http.StatusServiceUnavailable, wantCode: ErrExtractorUnavailable, wantRetryable: true},
		{status: http.StatusBadRequest, wantCode: ErrExtractorUnavailable, wantRetryable: false},
		{status: http.StatusForbidden, wantCode: ErrExtractorUnavailable, wantRetryable: false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := classifyStatus(tt.status, errors.New("upstream"))
			assert.Equal(t, tt.wantCode, err.Code)
			assert.Equal(t, tt.wantRetryable, err.Retryable)
		})
	}
}

func TestClassifyError(t *testing.T) {
	timeout := classifyError(context.DeadlineExceeded)
	assert.Equal(t, ErrExtractorTimeout, timeout.Code)
	assert.ErrorIs(t, timeout, context.DeadlineExceeded)

	other := classifyError(errors.New("connection reset"))
	assert.Equal(t, ErrExtractorUnavailable, other.Code)
	assert.True(t, other.Retryable)
}

func TestUserContent(t *testing.T) {
	text := userContent(dto.ExtractionInput{DocType: dto.DocTypeForm16, FileName: "f16.pdf", Text: "Gross salary 900000"})
	require.Len(t, text.Parts, 1)
	assert.Contains(t, text.Parts[0].Text, "Type: form_16")
	assert.Contains(t, text.Parts[0].Text, "Gross salary 900000")

	raw := userContent(dto.ExtractionInput{DocType: dto.DocTypeAIS, FileName: "ais.pdf", Data: []byte("%PDF")})
	require.Len(t, raw.Parts, 2)
	assert.Equal(t, "Type: ais\nFile: ais.pdf", raw.Parts[0].Text)
	require.NotNil(t, raw.Parts[1].InlineData)
	assert.Equal(t, "application/pdf", raw.Parts[1].InlineData.MIMEType)
}
