package service

import (
	"context"
	"fmt"

	"github.com/procureai/engine/internal/domain"
)

// Dashboard computes summary statistics from a full scan of the metadata
// store. Recomputed on every call; fine while the store stays small, and a
// known scaling limit beyond that.
func (s *Service) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}

	stats := &domain.DashboardStats{
		TotalDocuments: len(docs),
		DocumentTypes:  make(map[domain.DocumentType]int),
		RiskLevels:     make(map[domain.RiskLevel]int),
	}
	for _, doc := range docs {
		stats.DocumentTypes[doc.Type]++
		stats.RiskLevels[doc.RiskLevel]++
	}
	return stats, nil
}
