package main

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCaptureAttemptAudit(t *testing.T) {
	db := testDB(t)
	at := time.Date(2026, 8, 27, 8, 15, 0, 0, time.UTC)

	accepted := CaptureAttempt{
		ID:      "attempt-1",
		Variant: "new-applications",
		Numbers: []int{120, 45, 30, 200, 15, 80, 10, 350, 25},
		Record:  &MetricRecord{CapturedAt: at},
	}
	if err := InsertCaptureAttempt(db, accepted, at); err != nil {
		t.Fatalf("insert accepted attempt: %v", err)
	}

	rejected := CaptureAttempt{
		ID:       "attempt-2",
		Variant:  "new-applications",
		Numbers:  []int{120, 45},
		Rejected: "found 2 numeric tokens, need 9; try a clearer screenshot",
	}
	if err := InsertCaptureAttempt(db, rejected, at.Add(time.Minute)); err != nil {
		t.Fatalf("insert rejected attempt: %v", err)
	}

	attempts, err := GetRecentAttempts(db, "new-applications", 10)
	if err != nil {
		t.Fatalf("GetRecentAttempts failed: %v", err)
	}
	if len(attempts) != 2 {
		t.Fatalf("got %d attempts, want 2", len(attempts))
	}
	// Newest first.
	if attempts[0].ID != "attempt-2" || attempts[0].Outcome != outcomeRejected {
		t.Errorf("newest attempt = %s/%s, want attempt-2/rejected",
			attempts[0].ID, attempts[0].Outcome)
	}
	if attempts[0].Reason == "" {
		t.Error("rejected attempt should record its reason")
	}
	if attempts[1].Outcome != outcomeAccepted || attempts[1].TokenCount != 9 {
		t.Errorf("oldest attempt = %s tokens=%d, want accepted with 9 tokens",
			attempts[1].Outcome, attempts[1].TokenCount)
	}
}

func TestRecentAttemptsScopedByVariant(t *testing.T) {
	db := testDB(t)
	at := time.Now().UTC()

	InsertCaptureAttempt(db, CaptureAttempt{ID: "a", Variant: "new-applications", Record: &MetricRecord{}}, at)
	InsertCaptureAttempt(db, CaptureAttempt{ID: "b", Variant: "renewals", Record: &MetricRecord{}}, at)

	attempts, err := GetRecentAttempts(db, "renewals", 10)
	if err != nil {
		t.Fatalf("GetRecentAttempts failed: %v", err)
	}
	if len(attempts) != 1 || attempts[0].ID != "b" {
		t.Fatalf("got %v, want only attempt b", attempts)
	}
}

func TestReportArtifactRegistry(t *testing.T) {
	db := testDB(t)
	at := time.Date(2026, 8, 27, 8, 15, 0, 0, time.UTC)

	if err := InsertReportArtifact(db, "renewals", "pdf", "renewals_report_20260827_081500.pdf", at); err != nil {
		t.Fatalf("insert artifact: %v", err)
	}
	if err := InsertReportArtifact(db, "renewals", "chart", "renewals_trend_20260827_081500.html", at); err != nil {
		t.Fatalf("insert artifact: %v", err)
	}

	art, err := GetArtifactByFilename(db, "renewals_report_20260827_081500.pdf")
	if err != nil {
		t.Fatalf("GetArtifactByFilename failed: %v", err)
	}
	if art.Variant != "renewals" || art.Kind != "pdf" {
		t.Errorf("got %s/%s, want renewals/pdf", art.Variant, art.Kind)
	}

	if _, err := GetArtifactByFilename(db, "missing.pdf"); err != sql.ErrNoRows {
		t.Fatalf("missing filename err = %v, want sql.ErrNoRows", err)
	}

	arts, err := ListArtifacts(db, "renewals", 10)
	if err != nil {
		t.Fatalf("ListArtifacts failed: %v", err)
	}
	if len(arts) != 2 {
		t.Fatalf("got %d artifacts, want 2", len(arts))
	}
}

func TestDuplicateArtifactFilenameRejected(t *testing.T) {
	db := testDB(t)
	at := time.Now().UTC()

	if err := InsertReportArtifact(db, "renewals", "pdf", "dup.pdf", at); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := InsertReportArtifact(db, "renewals", "pdf", "dup.pdf", at); err == nil {
		t.Fatal("duplicate filename should violate the unique constraint")
	}
}
