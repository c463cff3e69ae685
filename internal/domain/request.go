package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OperationParams carries the parameters of a structured operation request.
// Which fields are required depends on the operation kind; the command
// translator validates them.
type OperationParams struct {
	FilePath             string `json:"file_path,omitempty"`
	VendorName           string `json:"vendor_name,omitempty"`
	DocumentID           string `json:"document_id,omitempty"`
	ComparisonDocumentID string `json:"comparison_document_id,omitempty"`
	TemplateName         string `json:"template_name,omitempty"`
	MaxLength            int    `json:"max_length,omitempty"`
	Query                string `json:"query,omitempty"`
	DocumentType         string `json:"document_type,omitempty"`
	DateRange            string `json:"date_range,omitempty"`
}

// SubmitRequest is the inbound request to execute an operation in a session.
type SubmitRequest struct {
	Operation OperationKind   `json:"operation"`
	Params    OperationParams `json:"params"`
}

// OperationResult holds the structured fields extracted from a completed run.
type OperationResult struct {
	DocumentID     string          `json:"document_id,omitempty"`
	Classification DocumentType    `json:"classification,omitempty"`
	RiskLevel      RiskLevel       `json:"risk_level,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	Fields         json.RawMessage `json:"fields,omitempty"`
	Comparison     string          `json:"comparison,omitempty"`
	Documents      []Document      `json:"documents,omitempty"`
	ResultCount    int             `json:"result_count,omitempty"`
}

// SubmitResult pairs the run (raw reply and terminal status) with whatever
// structured result could be extracted from it. ParseFailure is set when the
// run completed but the reply did not match the expected pattern; Result and
// ParseFailure are mutually exclusive.
type SubmitResult struct {
	Run          *Run             `json:"run"`
	Result       *OperationResult `json:"result,omitempty"`
	ParseFailure *ParseError      `json:"parse_failure,omitempty"`
}

// DashboardStats is the read-only summary view over the metadata store.
type DashboardStats struct {
	TotalDocuments int                  `json:"total_documents"`
	DocumentTypes  map[DocumentType]int `json:"document_types"`
	RiskLevels     map[RiskLevel]int    `json:"risk_levels"`
}

// DateRange bounds a search by upload time. A zero From or To leaves that
// end open.
type DateRange struct {
	From time.Time
	To   time.Time
}

const dateLayout = "2006-01-02"

// ParseDateRange parses "from..to" with date-only bounds (2006-01-02),
// either end optional ("2025-01-01..", "..2025-06-30"). An empty input
// yields a nil range.
func ParseDateRange(s string) (*DateRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.SplitN(s, "..", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid date range %q: expected from..to", s)
	}
	var r DateRange
	var err error
	if parts[0] != "" {
		if r.From, err = time.Parse(dateLayout, parts[0]); err != nil {
			return nil, fmt.Errorf("invalid date range %q: %w", s, err)
		}
	}
	if parts[1] != "" {
		if r.To, err = time.Parse(dateLayout, parts[1]); err != nil {
			return nil, fmt.Errorf("invalid date range %q: %w", s, err)
		}
		// Inclusive upper bound covering the whole day.
		r.To = r.To.Add(24*time.Hour - time.Nanosecond)
	}
	return &r, nil
}
