package sensor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/nerrad567/smartcity-core/internal/lifecycle"
)

// UnitName is the lifecycle name of the registry in notifications.
const UnitName = "MonitoringSystem"

// Logger defines the logging interface used by the Registry.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// errNilSensor is the failure recorded for an identifier holding no sensor.
var errNilSensor = errors.New("no sensor registered")

// errNonFinite is the failure recorded when a sensor returns NaN or ±Inf.
var errNonFinite = errors.New("non-finite reading")

// Registry owns a set of sensors keyed by identifier and sweeps them with
// fault isolation: one failing sensor never prevents the others from
// being measured.
//
// The registry is itself a lifecycle unit called "MonitoringSystem".
// Sweeping does not require the registry to be enabled; the lifecycle
// state is reported, not enforced.
//
// All public methods are thread-safe.
type Registry struct {
	*lifecycle.Switch

	sensors map[string]Sensor
	mu      sync.RWMutex // Protects sensors

	concurrency int
	clock       clock.Clock
	sinks       []ResultSink

	logger   Logger
	loggerMu sync.RWMutex

	stats   Stats
	statsMu sync.Mutex
}

// Option configures a Registry.
type Option func(*Registry)

// WithConcurrency measures up to n sensors in parallel. n <= 1 keeps the
// sweep sequential. Results are always returned in identifier order.
func WithConcurrency(n int) Option {
	return func(r *Registry) { r.concurrency = n }
}

// WithClock sets the clock used to stamp results.
func WithClock(c clock.Clock) Option {
	return func(r *Registry) {
		if c != nil {
			r.clock = c
		}
	}
}

// WithSinks hands every sweep's results to the given sinks.
func WithSinks(sinks ...ResultSink) Option {
	return func(r *Registry) {
		for _, s := range sinks {
			if s != nil {
				r.sinks = append(r.sinks, s)
			}
		}
	}
}

// WithObservers registers lifecycle observers for the registry unit.
func WithObservers(observers ...lifecycle.Observer) Option {
	return func(r *Registry) {
		for _, o := range observers {
			r.Observe(o)
		}
	}
}

// NewRegistry creates an empty, disabled registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		Switch:  lifecycle.NewSwitch(UnitName),
		sensors: make(map[string]Sensor),
		clock:   clock.New(),
		logger:  noopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.Switch.SetClock(r.clock.Now)
	return r
}

// SetLogger sets the logger for the registry.
func (r *Registry) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	r.loggerMu.Lock()
	r.logger = logger
	r.loggerMu.Unlock()
}

func (r *Registry) getLogger() Logger {
	r.loggerMu.RLock()
	defer r.loggerMu.RUnlock()
	return r.logger
}

// AddSink attaches a sink after construction.
func (r *Registry) AddSink(s ResultSink) {
	if s == nil {
		return
	}
	r.mu.Lock()
	r.sinks = append(r.sinks, s)
	r.mu.Unlock()
}

// Register stores sensor under id, silently replacing any sensor already
// registered with that identifier. It never fails and does not validate id.
func (r *Registry) Register(id string, s Sensor) {
	r.mu.Lock()
	_, replaced := r.sensors[id]
	r.sensors[id] = s
	r.mu.Unlock()

	r.getLogger().Debug("sensor registered", "id", id, "replaced", replaced)
}

// Unregister removes id. It reports whether a sensor was removed.
func (r *Registry) Unregister(id string) bool {
	r.mu.Lock()
	_, ok := r.sensors[id]
	delete(r.sensors, id)
	r.mu.Unlock()
	return ok
}

// Count returns the number of registered identifiers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sensors)
}

// IDs returns the registered identifiers in ascending order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sensors))
	for id := range r.sensors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// MeasureAll queries every registered sensor and returns exactly one
// Result per identifier, sorted by identifier.
//
// A sensor that returns an error, panics, returns a non-finite value, or
// is nil yields a failed Result wrapping ErrMeasurementFailed; the sweep
// continues with the remaining sensors. MeasureAll itself never fails.
// Failed entries are not retried.
//
// Parameters:
//   - ctx: Passed to each sensor; a cancelled context fails the entries
//     that had not yet been measured
//
// Returns:
//   - []Result: One entry per registered identifier (empty, not nil, when
//     nothing is registered)
func (r *Registry) MeasureAll(ctx context.Context) []Result {
	r.mu.RLock()
	ids := make([]string, 0, len(r.sensors))
	for id := range r.sensors {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	sensors := make([]Sensor, len(ids))
	for i, id := range ids {
		sensors[i] = r.sensors[id]
	}
	sinks := make([]ResultSink, len(r.sinks))
	copy(sinks, r.sinks)
	r.mu.RUnlock()

	results := make([]Result, len(ids))

	if r.concurrency > 1 && len(ids) > 1 {
		// Workers never return an error, so the group only bounds
		// parallelism; every slot is filled.
		var g errgroup.Group
		g.SetLimit(r.concurrency)
		for i := range ids {
			g.Go(func() error {
				results[i] = r.measureOne(ctx, ids[i], sensors[i])
				return nil
			})
		}
		_ = g.Wait() //nolint:errcheck // workers always return nil
	} else {
		for i := range ids {
			results[i] = r.measureOne(ctx, ids[i], sensors[i])
		}
	}

	failed := r.recordStats(results)
	r.getLogger().Info("sensor sweep complete",
		"sensors", len(results),
		"failed", failed,
	)

	r.dispatch(ctx, sinks, results)

	return results
}

// measureOne isolates a single sensor call.
func (r *Registry) measureOne(ctx context.Context, id string, s Sensor) (res Result) {
	res.ID = id

	defer func() {
		if p := recover(); p != nil {
			res.Value = 0
			res.Err = &MeasurementError{SensorID: id, Err: fmt.Errorf("panic: %v", p)}
		}
		res.MeasuredAt = r.clock.Now().UTC()
		if res.Err != nil {
			r.getLogger().Warn("sensor measurement failed", "id", id, "reason", res.Reason())
		}
	}()

	if s == nil {
		res.Err = &MeasurementError{SensorID: id, Err: errNilSensor}
		return res
	}

	if err := ctx.Err(); err != nil {
		res.Err = &MeasurementError{SensorID: id, Err: err}
		return res
	}

	v, err := s.Measure(ctx)
	switch {
	case err != nil:
		res.Err = &MeasurementError{SensorID: id, Err: err}
	case math.IsNaN(v) || math.IsInf(v, 0):
		res.Err = &MeasurementError{SensorID: id, Err: errNonFinite}
	default:
		res.Value = v
	}
	return res
}

// recordStats updates the last-sweep summary and returns the failure count.
func (r *Registry) recordStats(results []Result) int {
	failed := 0
	for _, res := range results {
		if !res.OK() {
			failed++
		}
	}

	r.statsMu.Lock()
	r.stats = Stats{
		Sweeps:    r.stats.Sweeps + 1,
		Total:     len(results),
		Succeeded: len(results) - failed,
		Failed:    failed,
		SweptAt:   r.clock.Now().UTC(),
	}
	r.statsMu.Unlock()

	return failed
}

// dispatch hands results to every sink. Sink errors are logged only.
func (r *Registry) dispatch(ctx context.Context, sinks []ResultSink, results []Result) {
	for _, s := range sinks {
		if err := s.Consume(ctx, results); err != nil {
			r.getLogger().Error("result sink failed", "sink", fmt.Sprintf("%T", s), "error", err)
		}
	}
}

// LastStats returns the summary of the most recent sweep.
func (r *Registry) LastStats() Stats {
	r.statsMu.Lock()
	defer r.statsMu.Unlock()
	return r.stats
}
