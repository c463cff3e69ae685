package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/procureai/engine/internal/command"
	"github.com/procureai/engine/internal/domain"
	"github.com/procureai/engine/internal/reply"
)

// Submit executes a structured operation inside an existing session: the
// request is rendered as a natural-language instruction, sent through the
// agent gateway, and the reply is parsed back into structured fields which
// are applied to the metadata store. Gateway failures surface as the run's
// terminal status, never as a returned error, so the caller can inspect the
// run and decide whether to retry.
func (s *Service) Submit(ctx context.Context, sessionID string, op domain.OperationKind, params domain.OperationParams) (*domain.SubmitResult, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	// Upload is the one operation where the engine, not the agent, owns
	// identity: the document ID is generated here and rendered into the
	// instruction so the agent's acknowledgement echoes it back.
	var uploaded *domain.Document
	if op == domain.OperationUpload {
		if params.FilePath == "" {
			return nil, fmt.Errorf("%w: file_path", domain.ErrMissingParameter)
		}
		uploaded = &domain.Document{
			DocumentID: domain.NewDocumentID(),
			Filename:   filepath.Base(params.FilePath),
			FilePath:   params.FilePath,
			Type:       domain.DocumentTypeUnclassified,
			Vendor:     params.VendorName,
			UploadedAt: time.Now(),
			RiskLevel:  domain.RiskLevelUnassessed,
		}
		params.DocumentID = uploaded.DocumentID
	}

	if err := s.checkReferencedDocuments(ctx, op, params); err != nil {
		return nil, err
	}
	if op == domain.OperationSearch {
		if _, err := domain.ParseDateRange(params.DateRange); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOperation, err)
		}
	}

	instruction, err := command.Translate(op, params)
	if err != nil {
		return nil, err
	}

	if err := s.checkPolicy(ctx, op, params); err != nil {
		return nil, err
	}

	// Durably register the document before the conversational round trip.
	if uploaded != nil {
		if err := s.store.CreateDocument(ctx, uploaded); err != nil {
			return nil, fmt.Errorf("failed to store document metadata: %w", err)
		}
	}

	run := s.executeRun(ctx, session.SessionID, op, instruction)
	result := &domain.SubmitResult{Run: run}
	if run.Status != domain.RunStatusCompleted {
		// The upload record already exists; the caller needs the assigned
		// identifier to reference it instead of uploading again.
		if uploaded != nil {
			result.Result = &domain.OperationResult{DocumentID: uploaded.DocumentID}
		}
		return result, nil
	}

	parsed, parseErr, err := s.applyReply(ctx, op, params, run.Reply)
	if err != nil {
		return nil, err
	}
	result.Result = parsed
	result.ParseFailure = parseErr
	return result, nil
}

// executeRun performs one gateway round trip and appends the terminal run to
// the session history. A timeout yields a TIMED_OUT run, a transport failure
// a FAILED one; the engine never fabricates a reply and never resubmits.
func (s *Service) executeRun(ctx context.Context, sessionID string, op domain.OperationKind, instruction string) *domain.Run {
	run := &domain.Run{
		RunID:       domain.NewRunID(),
		SessionID:   sessionID,
		Operation:   op,
		Instruction: instruction,
		StartedAt:   time.Now(),
	}

	convCtx, cancel := context.WithTimeout(ctx, s.config.AgentTimeout)
	defer cancel()

	replyText, err := s.agent.Converse(convCtx, sessionID, instruction)
	ended := time.Now()
	run.EndedAt = &ended

	switch {
	case err == nil:
		run.Status = domain.RunStatusCompleted
		run.Reply = replyText
	case errors.Is(err, context.DeadlineExceeded):
		run.Status = domain.RunStatusTimedOut
		run.Error = err.Error()
	default:
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
	}

	if err := s.store.CreateRun(ctx, run); err != nil {
		s.log.WithError(err).WithField("run_id", run.RunID).Error("failed to append run to session history")
	}
	s.log.WithFields(logrus.Fields{
		"session_id": sessionID,
		"run_id":     run.RunID,
		"operation":  op,
		"status":     run.Status,
	}).Info("run finished")
	return run
}

// applyReply parses the reply for the given operation and applies the
// extracted fields to the metadata store. A parse miss is returned as a
// typed failure, not an error, and leaves the store untouched.
func (s *Service) applyReply(ctx context.Context, op domain.OperationKind, params domain.OperationParams, replyText string) (*domain.OperationResult, *domain.ParseError, error) {
	switch op {
	case domain.OperationUpload:
		id, err := reply.ExtractDocumentID(replyText)
		if err != nil {
			return nil, asParseError(err), nil
		}
		if id != params.DocumentID {
			// The assigned identifier is authoritative; a divergent echo is
			// a diagnostic, not a new document.
			s.log.WithFields(logrus.Fields{
				"assigned": params.DocumentID,
				"echoed":   id,
			}).Warn("agent echoed a different document id")
		}
		return &domain.OperationResult{DocumentID: params.DocumentID}, nil, nil

	case domain.OperationClassify:
		docType, err := reply.ExtractClassification(replyText)
		if err != nil {
			return nil, asParseError(err), nil
		}
		if err := s.patchDocument(ctx, params.DocumentID, domain.DocumentPatch{Type: &docType}); err != nil {
			return nil, nil, err
		}
		return &domain.OperationResult{DocumentID: params.DocumentID, Classification: docType}, nil, nil

	case domain.OperationAssessRisk:
		risk, err := reply.ExtractRiskLevel(replyText)
		if err != nil {
			return nil, asParseError(err), nil
		}
		if err := s.patchDocument(ctx, params.DocumentID, domain.DocumentPatch{RiskLevel: &risk}); err != nil {
			return nil, nil, err
		}
		return &domain.OperationResult{DocumentID: params.DocumentID, RiskLevel: risk}, nil, nil

	case domain.OperationSummarize:
		summary, err := reply.ExtractSummary(replyText)
		if err != nil {
			return nil, asParseError(err), nil
		}
		if err := s.patchDocument(ctx, params.DocumentID, domain.DocumentPatch{Summary: &summary}); err != nil {
			return nil, nil, err
		}
		return &domain.OperationResult{DocumentID: params.DocumentID, Summary: summary}, nil, nil

	case domain.OperationExtract:
		fields, err := reply.ExtractFields(replyText)
		if err != nil {
			return nil, asParseError(err), nil
		}
		if err := s.patchDocument(ctx, params.DocumentID, domain.DocumentPatch{Extracted: fields}); err != nil {
			return nil, nil, err
		}
		return &domain.OperationResult{DocumentID: params.DocumentID, Fields: fields}, nil, nil

	case domain.OperationCompare:
		return &domain.OperationResult{DocumentID: params.DocumentID, Comparison: replyText}, nil, nil

	case domain.OperationSearch:
		// The structured store query is authoritative; the conversational
		// round trip above only keeps the session context informed.
		docs, err := s.SearchDocuments(ctx, params.Query, params.DocumentType, params.DateRange)
		if err != nil {
			return nil, nil, err
		}
		return &domain.OperationResult{Documents: docs, ResultCount: len(docs)}, nil, nil
	}

	return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidOperation, op)
}

func (s *Service) patchDocument(ctx context.Context, documentID string, patch domain.DocumentPatch) error {
	updated, err := s.store.UpdateDocument(ctx, documentID, patch)
	if err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if !updated {
		return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, documentID)
	}
	return nil
}

// checkReferencedDocuments verifies that every document identifier named by
// the request exists before anything is sent to the agent.
func (s *Service) checkReferencedDocuments(ctx context.Context, op domain.OperationKind, params domain.OperationParams) error {
	var ids []string
	switch op {
	case domain.OperationClassify, domain.OperationExtract, domain.OperationSummarize, domain.OperationAssessRisk:
		ids = []string{params.DocumentID}
	case domain.OperationCompare:
		ids = []string{params.DocumentID}
		if params.ComparisonDocumentID != "" {
			ids = append(ids, params.ComparisonDocumentID)
		}
	default:
		return nil
	}
	for _, id := range ids {
		if id == "" {
			continue // the translator reports the missing parameter
		}
		doc, err := s.store.GetDocument(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get document: %w", err)
		}
		if doc == nil {
			return fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, id)
		}
	}
	return nil
}

func (s *Service) checkPolicy(ctx context.Context, op domain.OperationKind, params domain.OperationParams) error {
	if s.policy == nil {
		return nil
	}
	decision, reason, err := s.policy.Evaluate(ctx, policyInput(op, params))
	if err != nil {
		return fmt.Errorf("policy evaluation failed: %w", err)
	}
	if decision == "block" {
		if reason == "" {
			reason = string(op)
		}
		return fmt.Errorf("%w: %s", domain.ErrOperationBlocked, reason)
	}
	return nil
}

func policyInput(op domain.OperationKind, params domain.OperationParams) map[string]interface{} {
	p := map[string]interface{}{}
	if b, err := json.Marshal(params); err == nil {
		_ = json.Unmarshal(b, &p)
	}
	return map[string]interface{}{
		"operation": string(op),
		"params":    p,
	}
}

func asParseError(err error) *domain.ParseError {
	var pe *domain.ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &domain.ParseError{Want: "structured result", Raw: err.Error()}
}
