package grid

import (
	"bytes"
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/nerrad567/smartcity-core/internal/lifecycle"
)

type lines []string

func (l *lines) Printf(format string, a ...any) { *l = append(*l, fmt.Sprintf(format, a...)) }

type metricCall struct {
	unit, metric string
	value        float64
}

type fakeMetrics struct {
	mu    sync.Mutex
	calls []metricCall
}

func (f *fakeMetrics) WriteEnergy(unit, metric string, value float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, metricCall{unit, metric, value})
}

func TestGrid_Accumulates(t *testing.T) {
	var out lines
	g := NewGrid(&out)

	steps := []struct {
		renewable, distribute float64
	}{
		{50, 30},
		{12.5, 0},
		{0, 7.25},
	}
	for _, s := range steps {
		g.IntegrateRenewable(s.renewable)
		g.Distribute(s.distribute)
	}

	want := Snapshot{RenewableProduction: 62.5, Consumption: 37.25}
	if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	if got := g.Snapshot().Balance(); got != 25.25 {
		t.Errorf("Balance() = %v, want 25.25", got)
	}

	if out[0] != "Renewable energy integrated: 50 units" || out[1] != "Energy distributed: 30 units" {
		t.Errorf("narration = %q", out[:2])
	}
}

type warnLogger struct {
	noopLogger
	mu    sync.Mutex
	warns []string
}

func (l *warnLogger) Warn(msg string, _ ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

func TestGrid_NonFiniteAmountsAreLoggedAndSkipped(t *testing.T) {
	tests := []struct {
		name  string
		units float64
		text  string
	}{
		{"NaN", math.NaN(), "NaN"},
		{"+Inf", math.Inf(1), "+Inf"},
		{"-Inf", math.Inf(-1), "-Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out lines
			log := &warnLogger{}
			metrics := &fakeMetrics{}
			g := NewGrid(&out)
			g.SetLogger(log)
			g.SetMetricWriter(metrics)
			m := NewEnergyMonitor(&out)
			m.SetLogger(log)

			g.IntegrateRenewable(tt.units)
			g.Distribute(tt.units)
			m.Update(tt.units)

			if g.Snapshot() != (Snapshot{}) || m.Current() != 0 {
				t.Errorf("totals changed: %+v, %v", g.Snapshot(), m.Current())
			}
			want := lines{
				"Renewable energy integrated: " + tt.text + " units",
				"Energy distributed: " + tt.text + " units",
				"Energy Consumption Updated: " + tt.text + " units",
			}
			if diff := cmp.Diff(want, out); diff != "" {
				t.Errorf("narration mismatch (-want +got):\n%s", diff)
			}
			if len(log.warns) != 3 {
				t.Errorf("warnings = %q, want 3", log.warns)
			}
			if len(metrics.calls) != 0 {
				t.Errorf("metrics written for skipped amount: %+v", metrics.calls)
			}
		})
	}
}

func TestGrid_NegativeAmountsAreLoggedAndApplied(t *testing.T) {
	log := &warnLogger{}
	g := NewGrid(nil)
	g.SetLogger(log)
	m := NewEnergyMonitor(nil)
	m.SetLogger(log)

	g.IntegrateRenewable(50)
	g.IntegrateRenewable(-10)
	g.Distribute(-5)
	m.Update(-2.5)

	want := Snapshot{RenewableProduction: 40, Consumption: -5}
	if diff := cmp.Diff(want, g.Snapshot()); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
	if got := m.Current(); got != -2.5 {
		t.Errorf("Current() = %v, want -2.5", got)
	}
	if len(log.warns) != 3 {
		t.Errorf("warnings = %q, want 3", log.warns)
	}
}

func TestGrid_SetLoggerNil(t *testing.T) {
	g := NewGrid(nil)
	g.SetLogger(nil)
	g.IntegrateRenewable(math.NaN())

	m := NewEnergyMonitor(nil)
	m.SetLogger(nil)
	m.Update(math.NaN())
}

func TestGrid_Report(t *testing.T) {
	g := NewGrid(nil)
	g.IntegrateRenewable(50)
	g.Distribute(30)

	var buf bytes.Buffer
	if err := g.Report(&buf); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	want := "Smart Grid Status:\nRenewable Energy Production: 50 units\nEnergy Consumption: 30 units\n"
	if buf.String() != want {
		t.Errorf("Report() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestGrid_Lifecycle(t *testing.T) {
	var events []lifecycle.Event
	obs := lifecycle.ObserverFunc(func(ev lifecycle.Event) { events = append(events, ev) })

	g := NewGrid(nil, obs)
	m := NewEnergyMonitor(nil, obs)

	if g.Enabled() || m.Enabled() {
		t.Fatal("units must start disabled")
	}
	g.Enable()
	m.Enable()

	if g.Name() != GridUnitName || m.Name() != MonitorUnitName {
		t.Errorf("names = %q, %q", g.Name(), m.Name())
	}
	if len(events) != 2 || events[0].Unit != "SmartGrid" || events[1].Unit != "EnergyConsumptionMonitor" {
		t.Errorf("events = %+v", events)
	}
}

func TestEnergyMonitor_Update(t *testing.T) {
	var out lines
	m := NewEnergyMonitor(&out)

	for _, u := range []float64{25, 10, 0.5} {
		m.Update(u)
	}

	if got := m.Current(); got != 35.5 {
		t.Errorf("Current() = %v, want 35.5", got)
	}
	if out[0] != "Energy Consumption Updated: 25 units" {
		t.Errorf("narration = %q", out[0])
	}
}

func TestMetricWriter(t *testing.T) {
	metrics := &fakeMetrics{}

	g := NewGrid(nil)
	g.SetMetricWriter(metrics)
	m := NewEnergyMonitor(nil)
	m.SetMetricWriter(metrics)

	g.IntegrateRenewable(50)
	g.IntegrateRenewable(10)
	g.Distribute(30)
	m.Update(25)

	want := []metricCall{
		{GridUnitName, MetricRenewable, 50},
		{GridUnitName, MetricRenewable, 60},
		{GridUnitName, MetricConsumption, 30},
		{MonitorUnitName, MetricConsumption, 25},
	}
	if diff := cmp.Diff(want, metrics.calls, cmp.AllowUnexported(metricCall{})); diff != "" {
		t.Errorf("metric calls mismatch (-want +got):\n%s", diff)
	}
}

func TestGrid_ConcurrentUpdates(t *testing.T) {
	g := NewGrid(nil)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.IntegrateRenewable(1)
			g.Distribute(0.5)
		}()
	}
	wg.Wait()

	if s := g.Snapshot(); s.RenewableProduction != 100 || s.Consumption != 50 {
		t.Errorf("Snapshot() = %+v, want {100 50}", s)
	}
}

func TestFormatUnits(t *testing.T) {
	tests := map[float64]string{50: "50", 12.5: "12.5", 0: "0", 0.1: "0.1"}
	for in, want := range tests {
		if got := FormatUnits(in); got != want {
			t.Errorf("FormatUnits(%v) = %q, want %q", in, got, want)
		}
	}
}
