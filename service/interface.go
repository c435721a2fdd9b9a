package service

import (
	"context"

	"github.com/Aashish23092/itr-audit-engine/dto"
)

// DocumentExtractor turns an uploaded document into structured financial data.
// The Gemini client in package client is the production implementation.
//
//go:generate mockgen -destination=mocks/mock_extractor.go -package=mocks -source=interface.go DocumentExtractor
type DocumentExtractor interface {
	Extract(ctx context.Context, input dto.ExtractionInput) (*dto.ExtractionResult, error)
}
