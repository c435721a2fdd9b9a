package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/Aashish23092/itr-audit-engine/dto"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// GeminiExtractor extracts financial data from documents with the Gemini API.
// It satisfies service.DocumentExtractor.
type GeminiExtractor struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	retry   RetryConfig
	logger  *zap.Logger
}

// NewGeminiExtractor creates an extractor. An empty apiKey yields an extractor
// that fails every call with ErrNotConfigured, so the rest of the service can
// still start.
func NewGeminiExtractor(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*GeminiExtractor, error) {
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &GeminiExtractor{
		model:   model,
		timeout: timeout,
		retry:   DefaultRetryConfig,
		logger:  logger,
	}
	if apiKey == "" {
		logger.Warn("GEMINI_API_KEY not set, document extraction is disabled")
		return e, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	e.client = client
	return e, nil
}

// Extract sends the document (its text layer when present, the raw bytes
// otherwise) to the model and decodes the JSON reply.
func (e *GeminiExtractor) Extract(ctx context.Context, input dto.ExtractionInput) (*dto.ExtractionResult, error) {
	if e.client == nil {
		return nil, &ExtractionError{
			Code:    ErrNotConfigured,
			Message: "GEMINI_API_KEY is not configured",
		}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	contents := []*genai.Content{userContent(input)}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(extractionSystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.1),
		ResponseMIMEType:  "application/json",
	}

	start := time.Now()
	result, err := WithRetry(ctx, e.retry, func(ctx context.Context) (*dto.ExtractionResult, error) {
		resp, err := e.client.Models.GenerateContent(ctx, e.model, contents, config)
		if err != nil {
			return nil, classifyError(err)
		}
		return ParseExtractionReply(resp.Text())
	})
	if err != nil {
		e.logger.Warn("document extraction failed",
			zap.String("file_name", input.FileName),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	e.logger.Debug("document extracted",
		zap.String("file_name", input.FileName),
		zap.Int("accounts", len(result.Accounts)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return result, nil
}

func userContent(input dto.ExtractionInput) *genai.Content {
	if input.Text != "" {
		return genai.NewContentFromText(textPrompt(input), genai.RoleUser)
	}

	mimeType := input.MimeType
	if mimeType == "" {
		mimeType = "application/pdf"
	}
	parts := []*genai.Part{
		genai.NewPartFromText(documentHeader(input)),
		genai.NewPartFromBytes(input.Data, mimeType),
	}
	return genai.NewContentFromParts(parts, genai.RoleUser)
}

// ParseExtractionReply decodes the model's reply, which may wrap the JSON in a
// markdown code fence.
func ParseExtractionReply(text string) (*dto.ExtractionResult, error) {
	text = strings.TrimSpace(text)
	if m := fencedJSON.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	if text == "" {
		return nil, &ExtractionError{Code: ErrInvalidReply, Message: "empty model reply"}
	}

	var result dto.ExtractionResult
	if err := json.Unmarshal([]byte(text), &result); err != nil {
		return nil, &ExtractionError{
			Code:    ErrInvalidReply,
			Message: "model reply is not valid extraction JSON",
			Cause:   err,
		}
	}
	return &result, nil
}

func classifyError(err error) *ExtractionError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &ExtractionError{
			Code:      ErrExtractorTimeout,
			Message:   "Gemini API request timed out",
			Retryable: true,
			Cause:     err,
		}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(apiErr.Code, err)
	}

	return &ExtractionError{
		Code:      ErrExtractorUnavailable,
		Message:   "Gemini API request failed",
		Retryable: true,
		Cause:     err,
	}
}

func classifyStatus(statusCode int, cause error) *ExtractionError {
	switch {
	case statusCode == http.StatusTooManyRequests:
		return &ExtractionError{
			Code:      ErrExtractorRateLimited,
			Message:   "Gemini API rate limited",
			Retryable: true,
			Cause:     cause,
		}
	case statusCode == http.StatusGatewayTimeout || statusCode == http.StatusRequestTimeout:
		return &ExtractionError{
			Code:      ErrExtractorTimeout,
			Message:   fmt.Sprintf("Gemini API timed out (HTTP %d)", statusCode),
			Retryable: true,
			Cause:     cause,
		}
	default:
		return &ExtractionError{
			Code:      ErrExtractorUnavailable,
			Message:   fmt.Sprintf("Gemini API error (HTTP %d)", statusCode),
			Retryable: statusCode >= 500,
			Cause:     cause,
		}
	}
}
