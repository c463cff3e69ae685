// Package command renders structured operation requests as natural-language
// instructions for the conversational agent. Translation is deterministic:
// identical inputs always render identical text.
package command

import (
	"fmt"

	"github.com/procureai/engine/internal/domain"
)

// DefaultSummaryWords bounds a summary when the caller does not supply one.
const DefaultSummaryWords = 250

// Translate maps an operation and its parameters onto an instruction string.
// It fails with domain.ErrInvalidOperation for unknown kinds and with
// domain.ErrMissingParameter when a required parameter is absent.
func Translate(op domain.OperationKind, p domain.OperationParams) (string, error) {
	switch op {
	case domain.OperationUpload:
		if p.FilePath == "" {
			return "", fmt.Errorf("%w: file_path", domain.ErrMissingParameter)
		}
		instruction := fmt.Sprintf("Upload document %s", p.FilePath)
		if p.VendorName != "" {
			instruction += fmt.Sprintf(" from vendor '%s'", p.VendorName)
		}
		// The engine assigns document identity before the round trip; the
		// agent's acknowledgement must echo the same ID.
		if p.DocumentID != "" {
			instruction += fmt.Sprintf(" with assigned ID %s", p.DocumentID)
		}
		return instruction, nil

	case domain.OperationClassify:
		if p.DocumentID == "" {
			return "", fmt.Errorf("%w: document_id", domain.ErrMissingParameter)
		}
		return fmt.Sprintf("Classify document with ID %s", p.DocumentID), nil

	case domain.OperationExtract:
		if p.DocumentID == "" {
			return "", fmt.Errorf("%w: document_id", domain.ErrMissingParameter)
		}
		return fmt.Sprintf("Extract key information from document with ID %s", p.DocumentID), nil

	case domain.OperationSummarize:
		if p.DocumentID == "" {
			return "", fmt.Errorf("%w: document_id", domain.ErrMissingParameter)
		}
		maxLength := p.MaxLength
		if maxLength <= 0 {
			maxLength = DefaultSummaryWords
		}
		return fmt.Sprintf("Summarize document with ID %s with maximum length %d words", p.DocumentID, maxLength), nil

	case domain.OperationAssessRisk:
		if p.DocumentID == "" {
			return "", fmt.Errorf("%w: document_id", domain.ErrMissingParameter)
		}
		return fmt.Sprintf("Assess the risk level of document with ID %s", p.DocumentID), nil

	case domain.OperationCompare:
		if p.DocumentID == "" {
			return "", fmt.Errorf("%w: document_id", domain.ErrMissingParameter)
		}
		switch {
		case p.ComparisonDocumentID != "" && p.TemplateName != "":
			return "", fmt.Errorf("%w: compare accepts exactly one of comparison_document_id or template_name", domain.ErrInvalidOperation)
		case p.ComparisonDocumentID != "":
			return fmt.Sprintf("Compare document with ID %s against document with ID %s", p.DocumentID, p.ComparisonDocumentID), nil
		case p.TemplateName != "":
			return fmt.Sprintf("Compare document with ID %s against template %s", p.DocumentID, p.TemplateName), nil
		default:
			return "", fmt.Errorf("%w: comparison_document_id or template_name", domain.ErrMissingParameter)
		}

	case domain.OperationSearch:
		if p.Query == "" {
			return "", fmt.Errorf("%w: query", domain.ErrMissingParameter)
		}
		instruction := fmt.Sprintf("Search for documents with query: %s", p.Query)
		if p.DocumentType != "" {
			instruction += fmt.Sprintf(", document type: %s", p.DocumentType)
		}
		if p.DateRange != "" {
			instruction += fmt.Sprintf(", date range: %s", p.DateRange)
		}
		return instruction, nil

	default:
		return "", fmt.Errorf("%w: %s", domain.ErrInvalidOperation, op)
	}
}
