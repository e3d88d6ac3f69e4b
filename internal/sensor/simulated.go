package sensor

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
)

// RandomSource yields uniform values in [0, 1).
// *rand.Rand from math/rand/v2 satisfies it.
type RandomSource interface {
	Float64() float64
}

// lockedSource makes a *rand.Rand safe for parallel sweeps.
type lockedSource struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rnd.Float64()
}

// NewSource returns a concurrency-safe PCG source.
// A zero seed picks a random one, so readings differ between runs.
func NewSource(seed uint64) RandomSource {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &lockedSource{rnd: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Range bounds simulated readings to [Min, Max).
type Range struct {
	Min float64
	Max float64
}

// DefaultRange is the reading range of the built-in sensors.
var DefaultRange = Range{Min: 0, Max: 100}

// Validate reports ErrInvalidRange for empty or inverted ranges.
func (r Range) Validate() error {
	if !(r.Max > r.Min) {
		return fmt.Errorf("%w: [%v, %v)", ErrInvalidRange, r.Min, r.Max)
	}
	return nil
}

func (r Range) scale(u float64) float64 {
	return r.Min + u*(r.Max-r.Min)
}

// simulated is the shared body of the built-in variants.
type simulated struct {
	src RandomSource
	rng Range
}

func (s simulated) measure(ctx context.Context) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.rng.scale(s.src.Float64()), nil
}

// AirQuality simulates an air quality index; higher is cleaner air.
type AirQuality struct{ simulated }

// Measure implements Sensor.
func (a *AirQuality) Measure(ctx context.Context) (float64, error) { return a.measure(ctx) }

// NoiseLevel simulates ambient noise; higher is louder.
type NoiseLevel struct{ simulated }

// Measure implements Sensor.
func (n *NoiseLevel) Measure(ctx context.Context) (float64, error) { return n.measure(ctx) }

// NewAirQuality creates an air quality sensor over DefaultRange.
func NewAirQuality(src RandomSource) *AirQuality {
	return &AirQuality{simulated{src: src, rng: DefaultRange}}
}

// NewNoiseLevel creates a noise level sensor over DefaultRange.
func NewNoiseLevel(src RandomSource) *NoiseLevel {
	return &NoiseLevel{simulated{src: src, rng: DefaultRange}}
}

// New builds a simulated sensor of the given kind.
//
// Parameters:
//   - kind: One of AllKinds()
//   - src: Random source shared or per-sensor
//   - rng: Reading range; must satisfy Range.Validate
//
// Returns:
//   - Sensor: Ready-to-register sensor
//   - error: ErrUnknownKind or ErrInvalidRange
func New(kind Kind, src RandomSource, rng Range) (Sensor, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}
	base := simulated{src: src, rng: rng}
	switch kind {
	case KindAirQuality:
		return &AirQuality{base}, nil
	case KindNoiseLevel:
		return &NoiseLevel{base}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
