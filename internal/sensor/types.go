package sensor

import (
	"context"
	"errors"
	"time"
)

// Sensor is anything that can produce a numeric reading or fail.
//
// Implementations do not need to be safe for concurrent use unless the
// registry is configured with WithConcurrency and the same instance is
// registered under several identifiers.
type Sensor interface {
	Measure(ctx context.Context) (float64, error)
}

// Func adapts a plain function to Sensor.
type Func func(ctx context.Context) (float64, error)

// Measure implements Sensor.
func (f Func) Measure(ctx context.Context) (float64, error) { return f(ctx) }

// Kind names a built-in simulated sensor variant.
type Kind string

// Built-in sensor kinds.
const (
	KindAirQuality Kind = "air_quality"
	KindNoiseLevel Kind = "noise_level"
)

// AllKinds returns all built-in kinds.
func AllKinds() []Kind {
	return []Kind{KindAirQuality, KindNoiseLevel}
}

// Result is the outcome of measuring one sensor during a sweep.
// Value is meaningful only when Err is nil.
type Result struct {
	ID         string
	Value      float64
	Err        error
	MeasuredAt time.Time
}

// OK reports whether the measurement succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// Reason returns the failure reason, or "" for a successful result.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	var me *MeasurementError
	if errors.As(r.Err, &me) {
		return me.Reason()
	}
	return r.Err.Error()
}

// Stats summarises the most recent sweep.
type Stats struct {
	Sweeps    int
	Total     int
	Succeeded int
	Failed    int
	SweptAt   time.Time
}
