package sensor

import (
	"errors"
	"fmt"
)

// Domain errors for the sensor package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(res.Err, sensor.ErrMeasurementFailed) {
//	    // the sensor could not produce a reading
//	}
var (
	// ErrMeasurementFailed is the one failure kind a sweep can report.
	ErrMeasurementFailed = errors.New("sensor: measurement failed")

	// ErrUnknownKind is returned when building a sensor of an unrecognised kind.
	ErrUnknownKind = errors.New("sensor: unknown kind")

	// ErrInvalidRange is returned when a reading range is empty or inverted.
	ErrInvalidRange = errors.New("sensor: invalid reading range")
)

// MeasurementError records why one sensor failed during a sweep.
//
// It matches ErrMeasurementFailed and the underlying cause with errors.Is.
type MeasurementError struct {
	SensorID string
	Err      error
}

// Error implements error.
func (e *MeasurementError) Error() string {
	return fmt.Sprintf("sensor %s: %v", e.SensorID, e.Err)
}

// Unwrap exposes both the sentinel and the cause.
func (e *MeasurementError) Unwrap() []error {
	return []error{ErrMeasurementFailed, e.Err}
}

// Reason is the human-readable cause without the sensor prefix.
func (e *MeasurementError) Reason() string {
	if e.Err == nil {
		return "unknown"
	}
	return e.Err.Error()
}
