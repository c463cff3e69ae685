// Package reply extracts structured values from free-form agent replies.
//
// The primary contract is a structured outcome object embedded in the reply
// (either the whole reply or a fenced JSON block); fixed textual patterns are
// the fallback adapter for agents that answer in plain prose. Extraction is
// best-effort and explicit about failure: a miss yields a *domain.ParseError
// carrying the raw reply, never an empty value indistinguishable from success.
package reply

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/procureai/engine/internal/domain"
)

// Outcome is the minimal structured-result schema an agent may embed in a
// reply. All fields are optional; extractors consult the field relevant to
// their operation.
type Outcome struct {
	DocumentID     string          `json:"document_id,omitempty"`
	Classification string          `json:"classification,omitempty"`
	RiskLevel      string          `json:"risk_level,omitempty"`
	Summary        string          `json:"summary,omitempty"`
	Fields         json.RawMessage `json:"fields,omitempty"`
}

const uuidToken = `[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}`

var (
	idClauseRe   = regexp.MustCompile(`(?i)\bID\s+(` + uuidToken + `)`)
	uuidTokenRe  = regexp.MustCompile(uuidToken)
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	jsonObjectRe = regexp.MustCompile(`(?s)\{.*\}`)
	summaryRe    = regexp.MustCompile(`(?is)\bsummary\s*:\s*(.+)$`)
)

// decodeOutcome attempts the structured contract: the trimmed reply as a
// JSON object, or the first fenced JSON block within it.
func decodeOutcome(text string) *Outcome {
	candidates := []string{}
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		candidates = append(candidates, trimmed)
	}
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		candidates = append(candidates, m[1])
	}
	for _, c := range candidates {
		var out Outcome
		if err := json.Unmarshal([]byte(c), &out); err == nil {
			return &out
		}
	}
	return nil
}

// ExtractDocumentID returns the document identifier referenced by the reply,
// preferring an explicit "ID <uuid>" clause over a bare UUID token.
func ExtractDocumentID(text string) (string, error) {
	if out := decodeOutcome(text); out != nil && out.DocumentID != "" {
		return out.DocumentID, nil
	}
	if m := idClauseRe.FindStringSubmatch(text); m != nil {
		return m[1], nil
	}
	if m := uuidTokenRe.FindString(text); m != "" {
		return m, nil
	}
	return "", &domain.ParseError{Want: "document id", Raw: text}
}

// ExtractClassification returns the document type named by the reply.
func ExtractClassification(text string) (domain.DocumentType, error) {
	if out := decodeOutcome(text); out != nil && out.Classification != "" {
		for _, t := range domain.KnownDocumentTypes() {
			if strings.EqualFold(out.Classification, string(t)) {
				return t, nil
			}
		}
	}
	lower := strings.ToLower(text)
	for _, t := range domain.KnownDocumentTypes() {
		if containsWord(lower, string(t)) {
			return t, nil
		}
	}
	return "", &domain.ParseError{Want: "classification", Raw: text}
}

// ExtractRiskLevel returns the risk level named by the reply.
func ExtractRiskLevel(text string) (domain.RiskLevel, error) {
	if out := decodeOutcome(text); out != nil && out.RiskLevel != "" {
		for _, r := range domain.KnownRiskLevels() {
			if strings.EqualFold(out.RiskLevel, string(r)) {
				return r, nil
			}
		}
	}
	lower := strings.ToLower(text)
	for _, r := range domain.KnownRiskLevels() {
		if containsWord(lower, string(r)) {
			return r, nil
		}
	}
	return "", &domain.ParseError{Want: "risk level", Raw: text}
}

// ExtractSummary returns the summary text of the reply. A "Summary:" label
// is stripped when present; otherwise the whole reply is the summary, since
// that is how the agent answers a summarize instruction.
func ExtractSummary(text string) (string, error) {
	if out := decodeOutcome(text); out != nil && out.Summary != "" {
		return out.Summary, nil
	}
	if m := summaryRe.FindStringSubmatch(text); m != nil {
		if s := strings.TrimSpace(m[1]); s != "" {
			return s, nil
		}
	}
	if s := strings.TrimSpace(text); s != "" {
		return s, nil
	}
	return "", &domain.ParseError{Want: "summary", Raw: text}
}

// ExtractFields returns the key-information object embedded in the reply.
func ExtractFields(text string) (json.RawMessage, error) {
	if out := decodeOutcome(text); out != nil && len(out.Fields) > 0 {
		return out.Fields, nil
	}
	if m := fencedJSONRe.FindStringSubmatch(text); m != nil {
		if json.Valid([]byte(m[1])) {
			return json.RawMessage(m[1]), nil
		}
	}
	if m := jsonObjectRe.FindString(text); m != "" && json.Valid([]byte(m)) {
		return json.RawMessage(m), nil
	}
	return nil, &domain.ParseError{Want: "extracted fields", Raw: text}
}

// containsWord reports whether lower contains word bounded by non-letters.
func containsWord(lower, word string) bool {
	idx := 0
	for {
		i := strings.Index(lower[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isLetter(lower[start-1])
		afterOK := end == len(lower) || !isLetter(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
