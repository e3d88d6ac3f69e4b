package grid

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"sync"

	"github.com/nerrad567/smartcity-core/internal/lifecycle"
)

// Unit names used in lifecycle notifications.
const (
	GridUnitName    = "SmartGrid"
	MonitorUnitName = "EnergyConsumptionMonitor"
)

// Printer receives operator narration. *console.Narrator satisfies it.
type Printer interface {
	Printf(format string, a ...any)
}

type discard struct{}

func (discard) Printf(string, ...any) {}

// Logger is the structured logger used to flag suspicious amounts.
// *logging.Logger satisfies it.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// MetricWriter receives running energy totals after every update.
// *influxdb.Client satisfies it.
type MetricWriter interface {
	WriteEnergy(unit, metric string, value float64)
}

// Metric field names passed to MetricWriter.
const (
	MetricRenewable   = "renewable_units"
	MetricConsumption = "consumption_units"
)

// Snapshot is a point-in-time copy of the grid accumulators.
type Snapshot struct {
	RenewableProduction float64
	Consumption         float64
}

// Balance is production minus consumption; negative means a deficit.
func (s Snapshot) Balance() float64 {
	return s.RenewableProduction - s.Consumption
}

// Grid accumulates renewable production and distributed consumption.
// It is a lifecycle unit named "SmartGrid". All methods are thread-safe.
type Grid struct {
	*lifecycle.Switch

	mu    sync.RWMutex
	state Snapshot

	out     Printer
	metrics MetricWriter
	logger  Logger
}

// NewGrid creates a disabled grid with zero totals. A nil out discards
// narration.
func NewGrid(out Printer, observers ...lifecycle.Observer) *Grid {
	if out == nil {
		out = discard{}
	}
	return &Grid{
		Switch: lifecycle.NewSwitch(GridUnitName, observers...),
		out:    out,
		logger: noopLogger{},
	}
}

// SetMetricWriter forwards running totals to w after each update.
func (g *Grid) SetMetricWriter(w MetricWriter) {
	g.mu.Lock()
	g.metrics = w
	g.mu.Unlock()
}

// SetLogger sets the logger for amount warnings. A nil logger silences
// them.
func (g *Grid) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	g.mu.Lock()
	g.logger = logger
	g.mu.Unlock()
}

// IntegrateRenewable adds units of renewable production. Every call is
// narrated; see accumulate for how odd amounts are handled.
func (g *Grid) IntegrateRenewable(units float64) {
	g.mu.Lock()
	applied := accumulate(&g.state.RenewableProduction, units, g.logger, GridUnitName, MetricRenewable)
	total, metrics := g.state.RenewableProduction, g.metrics
	g.mu.Unlock()

	g.out.Printf("Renewable energy integrated: %s units", FormatUnits(units))
	if applied && metrics != nil {
		metrics.WriteEnergy(GridUnitName, MetricRenewable, total)
	}
}

// Distribute adds units of consumption.
func (g *Grid) Distribute(units float64) {
	g.mu.Lock()
	applied := accumulate(&g.state.Consumption, units, g.logger, GridUnitName, MetricConsumption)
	total, metrics := g.state.Consumption, g.metrics
	g.mu.Unlock()

	g.out.Printf("Energy distributed: %s units", FormatUnits(units))
	if applied && metrics != nil {
		metrics.WriteEnergy(GridUnitName, MetricConsumption, total)
	}
}

// Snapshot returns the current totals.
func (g *Grid) Snapshot() Snapshot {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Report writes the grid totals:
//
//	Smart Grid Status:
//	Renewable Energy Production: 50 units
//	Energy Consumption: 30 units
func (g *Grid) Report(w io.Writer) error {
	s := g.Snapshot()
	_, err := fmt.Fprintf(w,
		"Smart Grid Status:\nRenewable Energy Production: %s units\nEnergy Consumption: %s units\n",
		FormatUnits(s.RenewableProduction),
		FormatUnits(s.Consumption),
	)
	return err
}

// EnergyMonitor tracks cumulative consumption. It is a lifecycle unit
// named "EnergyConsumptionMonitor".
type EnergyMonitor struct {
	*lifecycle.Switch

	mu      sync.RWMutex
	current float64

	out     Printer
	metrics MetricWriter
	logger  Logger
}

// NewEnergyMonitor creates a disabled monitor at zero.
func NewEnergyMonitor(out Printer, observers ...lifecycle.Observer) *EnergyMonitor {
	if out == nil {
		out = discard{}
	}
	return &EnergyMonitor{
		Switch: lifecycle.NewSwitch(MonitorUnitName, observers...),
		out:    out,
		logger: noopLogger{},
	}
}

// SetMetricWriter forwards the running total to w after each update.
func (m *EnergyMonitor) SetMetricWriter(w MetricWriter) {
	m.mu.Lock()
	m.metrics = w
	m.mu.Unlock()
}

// SetLogger sets the logger for amount warnings. A nil logger silences
// them.
func (m *EnergyMonitor) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	m.mu.Lock()
	m.logger = logger
	m.mu.Unlock()
}

// Update adds units to the running consumption.
func (m *EnergyMonitor) Update(units float64) {
	m.mu.Lock()
	applied := accumulate(&m.current, units, m.logger, MonitorUnitName, MetricConsumption)
	total, metrics := m.current, m.metrics
	m.mu.Unlock()

	m.out.Printf("Energy Consumption Updated: %s units", FormatUnits(units))
	if applied && metrics != nil {
		metrics.WriteEnergy(MonitorUnitName, MetricConsumption, total)
	}
}

// Current returns the running consumption.
func (m *EnergyMonitor) Current() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// accumulate adds units to *total and reports whether it did. NaN and
// infinite amounts are logged and skipped so totals stay finite.
// Negative amounts are logged and applied. Callers hold the owning mutex.
func accumulate(total *float64, units float64, logger Logger, unit, metric string) bool {
	if math.IsNaN(units) || math.IsInf(units, 0) {
		logger.Warn("ignoring non-finite energy amount",
			"unit", unit,
			"metric", metric,
			"units", FormatUnits(units),
		)
		return false
	}
	if units < 0 {
		logger.Warn("negative energy amount",
			"unit", unit,
			"metric", metric,
			"units", units,
		)
	}
	*total += units
	return true
}

// FormatUnits renders an energy amount with the shortest exact decimal.
func FormatUnits(units float64) string {
	return strconv.FormatFloat(units, 'f', -1, 64)
}
