package service

import (
	"context"
	"fmt"

	"github.com/procureai/engine/internal/domain"
)

// GetDocument returns the metadata record for a document identifier.
func (s *Service) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.store.GetDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, documentID)
	}
	return doc, nil
}

// SearchDocuments runs the structured search over the metadata store. A
// document matches when it satisfies every supplied filter; an empty result
// is a valid outcome.
func (s *Service) SearchDocuments(ctx context.Context, query, documentType, dateRange string) ([]domain.Document, error) {
	r, err := domain.ParseDateRange(dateRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOperation, err)
	}
	docs, err := s.store.SearchDocuments(ctx, query, domain.DocumentType(documentType), r)
	if err != nil {
		return nil, fmt.Errorf("failed to search documents: %w", err)
	}
	return docs, nil
}
