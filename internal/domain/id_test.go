package domain

import (
	"regexp"
	"testing"
	"time"
)

var canonicalIDRe = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestNewDocumentIDUniqueAndCanonical(t *testing.T) {
	const n = 1000
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := NewDocumentID()
		if !canonicalIDRe.MatchString(id) {
			t.Fatalf("non-canonical id: %s", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id after %d generations: %s", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestParseDateRange(t *testing.T) {
	r, err := ParseDateRange("2025-01-01..2025-06-30")
	if err != nil {
		t.Fatalf("ParseDateRange failed: %v", err)
	}
	if r.From != time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("unexpected From: %v", r.From)
	}
	if !r.To.After(time.Date(2025, 6, 30, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("To should cover the whole last day: %v", r.To)
	}

	r, err = ParseDateRange("2025-01-01..")
	if err != nil {
		t.Fatalf("open-ended range failed: %v", err)
	}
	if !r.To.IsZero() {
		t.Fatalf("expected open upper bound, got %v", r.To)
	}

	r, err = ParseDateRange("")
	if err != nil || r != nil {
		t.Fatalf("empty input should yield nil range, got %v, %v", r, err)
	}

	if _, err := ParseDateRange("2025-01-01"); err == nil {
		t.Fatal("expected error for missing separator")
	}
	if _, err := ParseDateRange("junk..2025-06-30"); err == nil {
		t.Fatal("expected error for malformed date")
	}
}
