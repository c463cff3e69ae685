package store

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/procureai/engine/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestDocumentRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	doc := &domain.Document{
		DocumentID: domain.NewDocumentID(),
		Filename:   "sample_contract.pdf",
		FilePath:   "/tmp/sample_contract.pdf",
		Type:       domain.DocumentTypeContract,
		Vendor:     "TechSolutions Australia",
		UploadedAt: time.Now(),
		RiskLevel:  domain.RiskLevelUnassessed,
		Tags:       []string{"fy25", "ict"},
		Extracted:  json.RawMessage(`{"contract_value":"$125,000"}`),
	}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	got, err := store.GetDocument(ctx, doc.DocumentID)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected document, got nil")
	}
	if got.Filename != doc.Filename || got.Vendor != doc.Vendor || got.Type != doc.Type {
		t.Fatalf("unexpected document: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "fy25" {
		t.Fatalf("unexpected tags: %v", got.Tags)
	}
	if string(got.Extracted) != `{"contract_value":"$125,000"}` {
		t.Fatalf("unexpected extracted payload: %s", got.Extracted)
	}
}

func TestGetDocumentUnknown(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetDocument(context.Background(), "does-not-exist")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for unknown id, got %+v", got)
	}
}

func TestUpdateDocumentMergesFields(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	doc := &domain.Document{
		DocumentID: "d1",
		Filename:   "proposal.pdf",
		Type:       domain.DocumentTypeUnclassified,
		Vendor:     "Acme",
		UploadedAt: time.Now(),
		RiskLevel:  domain.RiskLevelUnassessed,
	}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("CreateDocument failed: %v", err)
	}

	risk := domain.RiskLevelMedium
	updated, err := store.UpdateDocument(ctx, "d1", domain.DocumentPatch{RiskLevel: &risk})
	if err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}
	if !updated {
		t.Fatal("expected update to match a row")
	}

	got, err := store.GetDocument(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if got.RiskLevel != domain.RiskLevelMedium {
		t.Fatalf("risk level not applied: %s", got.RiskLevel)
	}
	// Unrelated fields survive the patch.
	if got.Vendor != "Acme" || got.Filename != "proposal.pdf" {
		t.Fatalf("patch clobbered unrelated fields: %+v", got)
	}
}

func TestUpdateDocumentUnknownDoesNotUpsert(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	docType := domain.DocumentTypeContract
	updated, err := store.UpdateDocument(ctx, "missing", domain.DocumentPatch{Type: &docType})
	if err != nil {
		t.Fatalf("UpdateDocument failed: %v", err)
	}
	if updated {
		t.Fatal("expected no row to match")
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("update created a record: %+v", docs)
	}
}

func TestSearchDocumentsFilters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	seed := []domain.Document{
		{DocumentID: "d1", Filename: "acme_contract.pdf", Type: domain.DocumentTypeContract, Vendor: "Acme", UploadedAt: base, RiskLevel: domain.RiskLevelUnassessed},
		{DocumentID: "d2", Filename: "proposal.pdf", Type: domain.DocumentTypeProposal, Vendor: "Acme", UploadedAt: base.AddDate(0, 1, 0), RiskLevel: domain.RiskLevelUnassessed},
		{DocumentID: "d3", Filename: "other.pdf", Type: domain.DocumentTypeContract, Vendor: "Globex", UploadedAt: base.AddDate(0, 2, 0), RiskLevel: domain.RiskLevelUnassessed},
	}
	for i := range seed {
		if err := store.CreateDocument(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateDocument failed: %v", err)
		}
	}

	docs, err := store.SearchDocuments(ctx, "Acme", "", nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 vendor matches, got %d", len(docs))
	}

	docs, err = store.SearchDocuments(ctx, "Acme", domain.DocumentTypeContract, nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].DocumentID != "d1" {
		t.Fatalf("expected only d1, got %+v", docs)
	}

	r := &domain.DateRange{From: base.AddDate(0, 0, 15)}
	docs, err = store.SearchDocuments(ctx, "", "", r)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents after cutoff, got %d", len(docs))
	}

	docs, err = store.SearchDocuments(ctx, "no-such-term", "", nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("expected empty result, got %d", len(docs))
	}
}

func TestSearchDocumentsLiteralMetacharacters(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	seed := []domain.Document{
		{DocumentID: "d1", Filename: "abc.pdf", Type: domain.DocumentTypeContract, UploadedAt: time.Now(), RiskLevel: domain.RiskLevelUnassessed},
		{DocumentID: "d2", Filename: "a_c.pdf", Type: domain.DocumentTypeContract, UploadedAt: time.Now(), RiskLevel: domain.RiskLevelUnassessed},
		{DocumentID: "d3", Filename: "a 100% deposit.pdf", Type: domain.DocumentTypeInvoice, UploadedAt: time.Now(), RiskLevel: domain.RiskLevelUnassessed},
	}
	for i := range seed {
		if err := store.CreateDocument(ctx, &seed[i]); err != nil {
			t.Fatalf("CreateDocument failed: %v", err)
		}
	}

	// "_" matches only itself, never an arbitrary character.
	docs, err := store.SearchDocuments(ctx, "a_c", "", nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].DocumentID != "d2" {
		t.Fatalf("expected only the literal underscore match, got %+v", docs)
	}

	// "%" matches only itself, never an arbitrary run.
	docs, err = store.SearchDocuments(ctx, "100%", "", nil)
	if err != nil {
		t.Fatalf("SearchDocuments failed: %v", err)
	}
	if len(docs) != 1 || docs[0].DocumentID != "d3" {
		t.Fatalf("expected only the literal percent match, got %+v", docs)
	}
}

func TestSessionAndRunOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	session := &domain.Session{SessionID: "s1", CreatedAt: time.Now()}
	if err := store.CreateSession(ctx, session); err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	// Identical start timestamps must not disturb submission order.
	started := time.Now()
	for _, id := range []string{"r1", "r2", "r3"} {
		ended := started
		run := &domain.Run{
			RunID:       id,
			SessionID:   "s1",
			Operation:   domain.OperationClassify,
			Instruction: "Classify document with ID d1",
			Reply:       "classified as contract",
			Status:      domain.RunStatusCompleted,
			StartedAt:   started,
			EndedAt:     &ended,
		}
		if err := store.CreateRun(ctx, run); err != nil {
			t.Fatalf("CreateRun failed: %v", err)
		}
	}

	runs, err := store.ListRuns(ctx, "s1")
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	for i, want := range []string{"r1", "r2", "r3"} {
		if runs[i].RunID != want {
			t.Fatalf("run %d out of order: got %s, want %s", i, runs[i].RunID, want)
		}
	}

	got, err := store.GetRun(ctx, "r2")
	if err != nil {
		t.Fatalf("GetRun failed: %v", err)
	}
	if got == nil || got.Status != domain.RunStatusCompleted || got.Reply == "" {
		t.Fatalf("unexpected run: %+v", got)
	}
}

func TestGetSessionUnknown(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetSession(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil session, got %+v", got)
	}
}
