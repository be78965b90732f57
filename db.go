package main

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// InitDB opens the audit database and creates its schema. The audit trail
// records every capture attempt (accepted or rejected) and every generated
// report artifact; the artifact table backs retrieval-by-filename for the
// download-serving collaborator.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS capture_attempts (
		id           TEXT PRIMARY KEY,
		variant      TEXT NOT NULL,
		outcome      TEXT NOT NULL,
		reason       TEXT DEFAULT '',
		token_count  INTEGER NOT NULL DEFAULT 0,
		attempted_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_attempts_variant ON capture_attempts(variant);
	CREATE INDEX IF NOT EXISTS idx_attempts_at ON capture_attempts(attempted_at);

	CREATE TABLE IF NOT EXISTS report_artifacts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		variant    TEXT NOT NULL,
		kind       TEXT NOT NULL,
		filename   TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_artifacts_variant ON report_artifacts(variant);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
)

func InsertCaptureAttempt(db *sql.DB, a CaptureAttempt, at time.Time) error {
	outcome := outcomeAccepted
	if !a.Accepted() {
		outcome = outcomeRejected
	}
	_, err := db.Exec(
		`INSERT INTO capture_attempts (id, variant, outcome, reason, token_count, attempted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Variant, outcome, a.Rejected, len(a.Numbers), at,
	)
	return err
}

// AttemptSummary is one audit row for a capture attempt.
type AttemptSummary struct {
	ID          string
	Variant     string
	Outcome     string
	Reason      string
	TokenCount  int
	AttemptedAt time.Time
}

func GetRecentAttempts(db *sql.DB, variant string, limit int) ([]AttemptSummary, error) {
	rows, err := db.Query(
		`SELECT id, variant, outcome, reason, token_count, attempted_at
		 FROM capture_attempts
		 WHERE variant = ?
		 ORDER BY attempted_at DESC
		 LIMIT ?`,
		variant, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AttemptSummary
	for rows.Next() {
		var a AttemptSummary
		if err := rows.Scan(&a.ID, &a.Variant, &a.Outcome, &a.Reason, &a.TokenCount, &a.AttemptedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ReportArtifact registers one generated report file.
type ReportArtifact struct {
	ID        int64
	Variant   string
	Kind      string // "pdf" or "chart"
	Filename  string
	CreatedAt time.Time
}

func InsertReportArtifact(db *sql.DB, variant, kind, filename string, at time.Time) error {
	_, err := db.Exec(
		`INSERT INTO report_artifacts (variant, kind, filename, created_at) VALUES (?, ?, ?, ?)`,
		variant, kind, filename, at,
	)
	return err
}

func GetArtifactByFilename(db *sql.DB, filename string) (ReportArtifact, error) {
	var a ReportArtifact
	err := db.QueryRow(
		`SELECT id, variant, kind, filename, created_at FROM report_artifacts WHERE filename = ?`,
		filename,
	).Scan(&a.ID, &a.Variant, &a.Kind, &a.Filename, &a.CreatedAt)
	return a, err
}

func ListArtifacts(db *sql.DB, variant string, limit int) ([]ReportArtifact, error) {
	rows, err := db.Query(
		`SELECT id, variant, kind, filename, created_at
		 FROM report_artifacts
		 WHERE variant = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		variant, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReportArtifact
	for rows.Next() {
		var a ReportArtifact
		if err := rows.Scan(&a.ID, &a.Variant, &a.Kind, &a.Filename, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
