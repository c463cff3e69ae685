package agent

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/procureai/engine/internal/domain"
)

// MockClient is a scripted implementation of Client for local development
// and tests. Replies are deterministic: the same instruction always yields
// the same answer, with classification and risk values derived from the
// document identifier.
type MockClient struct{}

// NewMockClient creates a new mock agent client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// Ensure MockClient implements Client interface.
var _ Client = (*MockClient)(nil)

var mockIDRe = regexp.MustCompile(`ID ([0-9a-fA-F-]{36})`)

// Converse implements Client.
func (m *MockClient) Converse(ctx context.Context, sessionID, instruction string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	id := ""
	if match := mockIDRe.FindStringSubmatch(instruction); match != nil {
		id = match[1]
	}

	switch {
	case strings.HasPrefix(instruction, "Upload document"):
		if id == "" {
			id = uuid.New().String()
		}
		return fmt.Sprintf("Document uploaded successfully with ID %s.", id), nil

	case strings.HasPrefix(instruction, "Classify document"):
		types := domain.KnownDocumentTypes()
		t := types[hashIndex(id, len(types))]
		return fmt.Sprintf("Document with ID %s has been classified as %s.", id, t), nil

	case strings.HasPrefix(instruction, "Extract key information"):
		return fmt.Sprintf("Key information extracted from document with ID %s: "+
			`{"contract_value": "$125,000", "start_date": "2025-07-01", "parties": ["Acme", "Commonwealth of Australia"]}`, id), nil

	case strings.HasPrefix(instruction, "Summarize document"):
		return fmt.Sprintf("Summary: Document %s sets out the scope of supply, pricing schedule and delivery milestones agreed between the parties.", id), nil

	case strings.HasPrefix(instruction, "Assess the risk level"):
		levels := domain.KnownRiskLevels()
		r := levels[hashIndex(id, len(levels))]
		return fmt.Sprintf("The risk level of document with ID %s is %s.", id, r), nil

	case strings.HasPrefix(instruction, "Compare document"):
		return fmt.Sprintf("Comparison complete for document with ID %s: the documents agree on scope but differ in payment terms.", id), nil

	case strings.HasPrefix(instruction, "Search for documents"):
		return "Search acknowledged; matching documents are available in the registry.", nil
	}

	return fmt.Sprintf("[MOCK] Received instruction: %q.", truncate(instruction, 100)), nil
}

func hashIndex(s string, n int) int {
	h := fnv.New32a()
	h.Write([]byte(s))
	return int(h.Sum32() % uint32(n))
}
