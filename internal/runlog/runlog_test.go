package runlog

import (
	"path/filepath"
	"testing"
)

func TestAppendAssignsIDAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := log.Append(Entry{Operation: "match", TemplateCount: 3, DetectionCount: 1}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := log.Append(Entry{Operation: "detect", TemplateCount: 3, DetectionCount: 5}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	entries, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID == "" || entries[1].ID == "" {
		t.Fatal("expected Append to assign a non-empty id")
	}
	if entries[0].Operation != "match" || entries[1].Operation != "detect" {
		t.Fatalf("entries out of order or wrong operation: %+v", entries)
	}
}

func TestReadAllOfMissingLogReturnsEmpty(t *testing.T) {
	entries, err := ReadAll(filepath.Join(t.TempDir(), "missing.jsonl"))
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("got %d entries, want 0", len(entries))
	}
}

func TestAppendPreservesExplicitID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.jsonl")
	log, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := log.Append(Entry{ID: "fixed-id", Operation: "match"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	entries, err := ReadAll(path)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if entries[0].ID != "fixed-id" {
		t.Fatalf("ID = %q, want %q", entries[0].ID, "fixed-id")
	}
}
