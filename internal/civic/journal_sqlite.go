package civic

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteJournal implements Journal on the community_entries table.
// Rows are tagged with the journal's run ID; insertion order is kept in
// the seq column.
type SQLiteJournal struct {
	db    *sql.DB
	runID string
}

var _ Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal creates a journal on an open, migrated database.
// An empty runID gets a fresh UUID.
func NewSQLiteJournal(db *sql.DB, runID string) *SQLiteJournal {
	if runID == "" {
		runID = uuid.NewString()
	}
	return &SQLiteJournal{db: db, runID: runID}
}

// RunID returns the tag written with every entry.
func (j *SQLiteJournal) RunID() string {
	return j.runID
}

// Append implements Journal.
func (j *SQLiteJournal) Append(ctx context.Context, e Entry) error {
	if !e.Kind.Valid() {
		return ErrInvalidKind
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO community_entries (id, run_id, kind, username, body, created_at, seq)
		VALUES (?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM community_entries))
	`, e.ID, j.runID, string(e.Kind), e.Username, e.Body, e.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("inserting community entry: %w", err)
	}
	return nil
}

// List returns this run's entries of kind, oldest first.
func (j *SQLiteJournal) List(ctx context.Context, kind Kind) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, kind, username, body, created_at
		FROM community_entries
		WHERE run_id = ? AND kind = ?
		ORDER BY seq
	`, j.runID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("querying community entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			k         string
			createdAt string
		)
		if err := rows.Scan(&e.ID, &k, &e.Username, &e.Body, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning community entry: %w", err)
		}
		e.Kind = Kind(k)
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt) //nolint:errcheck // Format is controlled
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating community entries: %w", err)
	}
	return entries, nil
}
