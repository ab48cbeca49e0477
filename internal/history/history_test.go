package history

import (
	"path/filepath"
	"testing"

	"github.com/fentz26/papercheck/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndGet(t *testing.T) {
	s := newTestStore(t)

	cfg := models.CheckConfiguration{
		PaperID:        "p1",
		TemplateID:     "t1",
		CheckDuplicate: true,
	}
	entry, err := s.Record("tk1", cfg)
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if entry.Status != models.CheckStatusPending {
		t.Errorf("Expected status pending, got %s", entry.Status)
	}

	got, err := s.Get("tk1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for recorded task")
	}
	if got.PaperID != "p1" || got.TemplateID != "t1" {
		t.Errorf("Got %+v, want paper p1 / template t1", got)
	}

	missing, err := s.Get("nope")
	if err != nil {
		t.Fatalf("Get for missing task failed: %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for unknown task, got %+v", missing)
	}
}

func TestListAndFilter(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Record("tk1", models.CheckConfiguration{PaperID: "p1", TemplateID: "t1"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := s.Record("tk2", models.CheckConfiguration{PaperID: "p2", TemplateID: "t1"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.UpdateOutcome("tk2", models.CheckStatusCompleted, "r2"); err != nil {
		t.Fatalf("UpdateOutcome failed: %v", err)
	}

	all, err := s.List("")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(all))
	}

	completed, err := s.List(models.CheckStatusCompleted)
	if err != nil {
		t.Fatalf("List with filter failed: %v", err)
	}
	if len(completed) != 1 {
		t.Fatalf("Expected 1 completed entry, got %d", len(completed))
	}
	if completed[0].TaskID != "tk2" || completed[0].ResultID != "r2" {
		t.Errorf("Got %+v, want tk2 with result r2", completed[0])
	}
}

func TestUpdateOutcomeKeepsKnownResultID(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Record("tk1", models.CheckConfiguration{PaperID: "p1", TemplateID: "t1"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if err := s.UpdateOutcome("tk1", models.CheckStatusCompleted, "r1"); err != nil {
		t.Fatalf("UpdateOutcome failed: %v", err)
	}
	// A later update without a result id must not erase the stored one.
	if err := s.UpdateOutcome("tk1", models.CheckStatusCompleted, ""); err != nil {
		t.Fatalf("UpdateOutcome failed: %v", err)
	}

	got, err := s.Get("tk1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ResultID != "r1" {
		t.Errorf("ResultID = %q, want r1", got.ResultID)
	}
}
