// Package domain defines the core domain models for the engine.
package domain

// DocumentType classifies a procurement document.
type DocumentType string

const (
	DocumentTypeContract     DocumentType = "contract"
	DocumentTypeProposal     DocumentType = "proposal"
	DocumentTypeInvoice      DocumentType = "invoice"
	DocumentTypeTender       DocumentType = "tender"
	DocumentTypeUnclassified DocumentType = "unclassified"
)

// KnownDocumentTypes lists the types a classification can resolve to.
// Unclassified is the initial state, not a classification outcome.
func KnownDocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypeContract,
		DocumentTypeProposal,
		DocumentTypeInvoice,
		DocumentTypeTender,
	}
}

// RiskLevel represents the assessed risk of a document.
type RiskLevel string

const (
	RiskLevelLow        RiskLevel = "low"
	RiskLevelMedium     RiskLevel = "medium"
	RiskLevelHigh       RiskLevel = "high"
	RiskLevelUnassessed RiskLevel = "unassessed"
)

// KnownRiskLevels lists the levels an assessment can resolve to.
func KnownRiskLevels() []RiskLevel {
	return []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh}
}

// RunStatus represents the terminal status of a run.
type RunStatus string

const (
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
	RunStatusTimedOut  RunStatus = "TIMED_OUT"
)

// OperationKind identifies a structured operation submitted into a session.
type OperationKind string

const (
	OperationUpload     OperationKind = "upload"
	OperationClassify   OperationKind = "classify"
	OperationExtract    OperationKind = "extract"
	OperationSummarize  OperationKind = "summarize"
	OperationAssessRisk OperationKind = "assess_risk"
	OperationCompare    OperationKind = "compare"
	OperationSearch     OperationKind = "search"
)
