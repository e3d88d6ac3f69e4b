package sensor

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 500
)

// SQLiteHistoryRepository implements HistoryRepository using SQLite.
//
// It stores one row per sweep result in the sensor_readings table.
type SQLiteHistoryRepository struct {
	db *sql.DB
}

var _ HistoryRepository = (*SQLiteHistoryRepository)(nil)

// NewSQLiteHistoryRepository creates a new SQLite reading journal.
//
// Parameters:
//   - db: Open SQLite connection with migrations applied
//
// Returns:
//   - *SQLiteHistoryRepository: Repository instance ready for use
func NewSQLiteHistoryRepository(db *sql.DB) *SQLiteHistoryRepository {
	return &SQLiteHistoryRepository{db: db}
}

// Consume writes every result of a sweep in one transaction.
func (r *SQLiteHistoryRepository) Consume(ctx context.Context, results []Result) error {
	if len(results) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO sensor_readings (sensor_id, value, failure, measured_at) VALUES (?, ?, ?, ?)",
	)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, res := range results {
		var value sql.NullFloat64
		var failure sql.NullString
		if res.OK() {
			value = sql.NullFloat64{Float64: res.Value, Valid: true}
		} else {
			failure = sql.NullString{String: res.Reason(), Valid: true}
		}

		measuredAt := res.MeasuredAt
		if measuredAt.IsZero() {
			measuredAt = time.Now()
		}

		if _, err := stmt.ExecContext(ctx, res.ID, value, failure, measuredAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("inserting reading for %s: %w", res.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing readings: %w", err)
	}
	return nil
}

// GetHistory returns recent entries for a sensor, newest first.
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - sensorID: Registry identifier
//   - limit: Maximum entries to return (default 50, max 500)
//
// Returns:
//   - []ReadingEntry: Entries ordered by measured_at DESC
//   - error: nil on success, otherwise the underlying query error
func (r *SQLiteHistoryRepository) GetHistory(ctx context.Context, sensorID string, limit int) ([]ReadingEntry, error) {
	if sensorID == "" {
		return nil, fmt.Errorf("sensor id is required")
	}
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, sensor_id, value, failure, measured_at
		 FROM sensor_readings
		 WHERE sensor_id = ?
		 ORDER BY measured_at DESC, id DESC
		 LIMIT ?`,
		sensorID,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying reading history: %w", err)
	}
	defer rows.Close()

	entries := make([]ReadingEntry, 0, limit)
	for rows.Next() {
		var entry ReadingEntry
		var value sql.NullFloat64
		var failure sql.NullString
		var measuredAt string

		if err := rows.Scan(&entry.ID, &entry.SensorID, &value, &failure, &measuredAt); err != nil {
			return nil, fmt.Errorf("scanning reading history: %w", err)
		}

		if value.Valid {
			v := value.Float64
			entry.Value = &v
		}
		entry.Failure = failure.String

		ts, err := time.Parse(time.RFC3339Nano, measuredAt)
		if err != nil {
			return nil, fmt.Errorf("parsing measured_at: %w", err)
		}
		entry.MeasuredAt = ts

		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating reading history: %w", err)
	}

	return entries, nil
}

// PruneHistory deletes entries older than the given duration.
//
// Returns:
//   - int64: Number of rows deleted
//   - error: nil on success, otherwise the underlying database error
func (r *SQLiteHistoryRepository) PruneHistory(ctx context.Context, olderThan time.Duration) (int64, error) {
	if olderThan <= 0 {
		return 0, fmt.Errorf("olderThan must be positive")
	}

	cutoff := time.Now().UTC().Add(-olderThan).Format(time.RFC3339Nano)
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM sensor_readings WHERE measured_at < ?",
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting reading history: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("checking rows affected: %w", err)
	}
	return n, nil
}
