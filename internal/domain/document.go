package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Document is the metadata record for an uploaded procurement document.
// The identifier is assigned at upload time and never changes.
type Document struct {
	DocumentID string          `json:"document_id"`
	Filename   string          `json:"filename"`
	FilePath   string          `json:"file_path,omitempty"`
	Type       DocumentType    `json:"document_type"`
	Vendor     string          `json:"vendor,omitempty"`
	UploadedAt time.Time       `json:"uploaded_at"`
	RiskLevel  RiskLevel       `json:"risk_level"`
	Tags       []string        `json:"tags,omitempty"`
	Summary    string          `json:"summary,omitempty"`
	Extracted  json.RawMessage `json:"extracted,omitempty"`
}

// DocumentPatch describes a partial metadata update. Nil fields are left
// untouched; the store applies the patch as a single atomic statement.
type DocumentPatch struct {
	Type      *DocumentType
	Vendor    *string
	RiskLevel *RiskLevel
	Tags      *[]string
	Summary   *string
	Extracted json.RawMessage
}

// IsZero reports whether the patch carries no changes.
func (p DocumentPatch) IsZero() bool {
	return p.Type == nil && p.Vendor == nil && p.RiskLevel == nil &&
		p.Tags == nil && p.Summary == nil && p.Extracted == nil
}

// NewDocumentID returns a fresh document identifier. Document identifiers
// are full canonical UUIDs because they must be recoverable from free-form
// agent replies; session and run identifiers use shorter prefixed forms.
func NewDocumentID() string {
	return uuid.New().String()
}
