// Package ledger records batch-job submissions in a SQLite database so
// past runs stay inspectable after the scheduler has forgotten them.
package ledger

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// Submission states.
const (
	StateSubmitted = "submitted"
	StateCancelled = "cancelled"
)

// ErrNoSubmission is returned when a task has no recorded submission.
var ErrNoSubmission = errors.New("no submission recorded for task")

// Submission is one recorded scheduler submission.
type Submission struct {
	ID          string    `json:"id"`
	Task        string    `json:"task"`
	JobID       string    `json:"job_id"`
	State       string    `json:"state"`
	Script      string    `json:"script"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Ledger is a handle to the submissions database.
type Ledger struct {
	db *sql.DB
}

// Open creates the data directory if needed and opens the ledger database
// inside it.
func Open(dataDir string) (*Ledger, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, "ink.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("init ledger schema: %w", err)
	}
	return &Ledger{db: db}, nil
}

// Close releases the database handle.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record inserts a new submission in state submitted and returns it.
func (l *Ledger) Record(task, jobID, script string) (*Submission, error) {
	sub := &Submission{
		ID:          uuid.NewString(),
		Task:        task,
		JobID:       jobID,
		State:       StateSubmitted,
		Script:      script,
		SubmittedAt: time.Now().UTC(),
	}

	_, err := l.db.Exec(
		`INSERT INTO submissions (id, task, job_id, state, script, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		sub.ID, sub.Task, sub.JobID, sub.State, sub.Script, sub.SubmittedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("record submission: %w", err)
	}
	return sub, nil
}

// MarkCancelled flips a submission to the cancelled state.
func (l *Ledger) MarkCancelled(id string) error {
	res, err := l.db.Exec(`UPDATE submissions SET state = ? WHERE id = ?`, StateCancelled, id)
	if err != nil {
		return fmt.Errorf("mark cancelled: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("mark cancelled: submission %s not found", id)
	}
	return nil
}

// Latest returns the most recent submission for a task. Returns
// ErrNoSubmission when the task has never been submitted.
func (l *Ledger) Latest(task string) (*Submission, error) {
	row := l.db.QueryRow(
		`SELECT id, task, job_id, state, script, submitted_at
		 FROM submissions WHERE task = ?
		 ORDER BY submitted_at DESC, rowid DESC LIMIT 1`, task)

	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNoSubmission, task)
	}
	return sub, err
}

// List returns all submissions, newest first.
func (l *Ledger) List() ([]*Submission, error) {
	rows, err := l.db.Query(
		`SELECT id, task, job_id, state, script, submitted_at
		 FROM submissions ORDER BY submitted_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var subs []*Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanSubmission(s scanner) (*Submission, error) {
	var sub Submission
	if err := s.Scan(&sub.ID, &sub.Task, &sub.JobID, &sub.State, &sub.Script, &sub.SubmittedAt); err != nil {
		return nil, err
	}
	return &sub, nil
}
