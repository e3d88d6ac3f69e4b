package sensor

import (
	"context"
	"time"
)

// ReadingEntry is one journaled sweep result.
type ReadingEntry struct {
	// ID is the auto-incremented primary key.
	ID int64 `json:"id"`

	// SensorID is the registry identifier the result was recorded under.
	SensorID string `json:"sensor_id"`

	// Value is the reading; nil when the measurement failed.
	Value *float64 `json:"value,omitempty"`

	// Failure is the failure reason; empty on success.
	Failure string `json:"failure,omitempty"`

	// MeasuredAt is when the sensor was queried (UTC).
	MeasuredAt time.Time `json:"measured_at"`
}

// HistoryRepository journals sweep results and reads them back.
//
// Implementations must be thread-safe and use UTC timestamps.
type HistoryRepository interface {
	ResultSink

	// GetHistory returns recent entries for a sensor, newest first.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - sensorID: Registry identifier
	//   - limit: Maximum entries to return (implementation may clamp bounds)
	//
	// Returns:
	//   - []ReadingEntry: Entries ordered newest first (may be empty)
	//   - error: nil on success, otherwise the underlying query error
	GetHistory(ctx context.Context, sensorID string, limit int) ([]ReadingEntry, error)
}
