// Package store defines the storage interface and its SQLite implementation.
package store

import (
	"context"

	"github.com/procureai/engine/internal/domain"
)

// Store defines the interface for data persistence. Lookups return (nil, nil)
// for unknown identifiers; the service layer maps that to typed not-found
// errors.
type Store interface {
	// Document operations
	CreateDocument(ctx context.Context, doc *domain.Document) error
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)
	UpdateDocument(ctx context.Context, documentID string, patch domain.DocumentPatch) (bool, error)
	ListDocuments(ctx context.Context) ([]domain.Document, error)
	SearchDocuments(ctx context.Context, query string, docType domain.DocumentType, dateRange *domain.DateRange) ([]domain.Document, error)

	// Session operations
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, sessionID string) (*domain.Session, error)

	// Run operations
	CreateRun(ctx context.Context, run *domain.Run) error
	GetRun(ctx context.Context, runID string) (*domain.Run, error)
	ListRuns(ctx context.Context, sessionID string) ([]domain.Run, error)

	// Lifecycle
	Close() error
}
