// Package history provides SQLite-backed local history of submitted checks,
// so a user can find a task again after leaving the progress view.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/papercheck/internal/models"
	_ "modernc.org/sqlite"
)

// Entry is one locally recorded check submission. Status and ResultID hold
// the last state this client observed; the server remains the source of
// truth.
type Entry struct {
	TaskID      string
	PaperID     string
	TemplateID  string
	Status      models.CheckStatus
	ResultID    string
	SubmittedAt time.Time
	UpdatedAt   time.Time
}

// Store provides access to the local history database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS checks (
		task_id TEXT PRIMARY KEY,
		paper_id TEXT NOT NULL,
		template_id TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		result_id TEXT,
		submitted_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_checks_status ON checks(status);
	CREATE INDEX IF NOT EXISTS idx_checks_paper_id ON checks(paper_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record inserts a freshly submitted check.
func (s *Store) Record(taskID string, cfg models.CheckConfiguration) (*Entry, error) {
	now := time.Now().UTC()
	entry := &Entry{
		TaskID:      taskID,
		PaperID:     cfg.PaperID,
		TemplateID:  cfg.TemplateID,
		Status:      models.CheckStatusPending,
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	_, err := s.db.Exec(
		`INSERT INTO checks (task_id, paper_id, template_id, status, submitted_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.TaskID, entry.PaperID, entry.TemplateID, entry.Status, entry.SubmittedAt, entry.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert check: %w", err)
	}
	return entry, nil
}

// Get retrieves one entry by task id, or nil when unknown.
func (s *Store) Get(taskID string) (*Entry, error) {
	entry := &Entry{}
	var resultID sql.NullString

	err := s.db.QueryRow(
		`SELECT task_id, paper_id, template_id, status, result_id, submitted_at, updated_at FROM checks WHERE task_id = ?`,
		taskID,
	).Scan(&entry.TaskID, &entry.PaperID, &entry.TemplateID, &entry.Status, &resultID, &entry.SubmittedAt, &entry.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query check: %w", err)
	}
	if resultID.Valid {
		entry.ResultID = resultID.String
	}
	return entry, nil
}

// List returns recorded checks, newest first, optionally filtered by status.
func (s *Store) List(status models.CheckStatus) ([]Entry, error) {
	query := `SELECT task_id, paper_id, template_id, status, result_id, submitted_at, updated_at FROM checks`
	var args []interface{}

	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY submitted_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query checks: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var resultID sql.NullString
		if err := rows.Scan(&entry.TaskID, &entry.PaperID, &entry.TemplateID, &entry.Status, &resultID, &entry.SubmittedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan check: %w", err)
		}
		if resultID.Valid {
			entry.ResultID = resultID.String
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// UpdateOutcome records the last observed status (and result id, when known)
// for a task.
func (s *Store) UpdateOutcome(taskID string, status models.CheckStatus, resultID string) error {
	var rid interface{}
	if resultID != "" {
		rid = resultID
	}
	_, err := s.db.Exec(
		`UPDATE checks SET status = ?, result_id = COALESCE(?, result_id), updated_at = ? WHERE task_id = ?`,
		status, rid, time.Now().UTC(), taskID,
	)
	return err
}
