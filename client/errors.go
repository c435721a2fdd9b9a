package client

import "fmt"

// ExtractionErrorCode identifies why document extraction failed.
type ExtractionErrorCode string

const (
	ErrExtractorUnavailable ExtractionErrorCode = "EXTRACTOR_UNAVAILABLE"
	ErrExtractorTimeout     ExtractionErrorCode = "EXTRACTOR_TIMEOUT"
	ErrExtractorRateLimited ExtractionErrorCode = "EXTRACTOR_RATE_LIMITED"
	ErrInvalidReply         ExtractionErrorCode = "INVALID_REPLY"
	ErrNotConfigured        ExtractionErrorCode = "NOT_CONFIGURED"
)

// ExtractionError is a structured error for extraction failures.
type ExtractionError struct {
	Code      ExtractionErrorCode
	Message   string
	Retryable bool
	Cause     error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// IsRetryable returns whether this error is retryable.
func (e *ExtractionError) IsRetryable() bool {
	return e.Retryable
}
