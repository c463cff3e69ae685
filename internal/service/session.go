package service

import (
	"context"
	"fmt"
	"time"

	"github.com/procureai/engine/internal/domain"
)

// CreateSession allocates a new empty conversation session.
func (s *Service) CreateSession(ctx context.Context) (*domain.Session, error) {
	session := &domain.Session{
		SessionID: domain.NewSessionID(),
		CreatedAt: time.Now(),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.log.WithField("session_id", session.SessionID).Info("session created")
	return session, nil
}

// ListRuns returns the session's exchange history in submission order.
func (s *Service) ListRuns(ctx context.Context, sessionID string) ([]domain.Run, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}
	runs, err := s.store.ListRuns(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
