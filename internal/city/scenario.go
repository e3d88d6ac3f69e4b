package city

import (
	"context"
	"fmt"
	"io"

	"github.com/benbjohnson/clock"

	"github.com/nerrad567/smartcity-core/internal/analytics"
	"github.com/nerrad567/smartcity-core/internal/building"
	"github.com/nerrad567/smartcity-core/internal/citizen"
	"github.com/nerrad567/smartcity-core/internal/civic"
	"github.com/nerrad567/smartcity-core/internal/connectivity"
	"github.com/nerrad567/smartcity-core/internal/console"
	"github.com/nerrad567/smartcity-core/internal/grid"
	"github.com/nerrad567/smartcity-core/internal/lifecycle"
	"github.com/nerrad567/smartcity-core/internal/sensor"
)

// Identifiers of the built-in sensors.
const (
	AirQualitySensorID = "AirQualitySensor"
	NoiseLevelSensorID = "NoiseLevelSensor"
)

// AppName is the name of the citizen mobile app.
const AppName = "CityExplorer"

// Logger is the logging interface used by the scenario and handed to the
// sensor registry.
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

// NamedSensor is an additional sensor registered after the built-ins.
type NamedSensor struct {
	ID     string
	Sensor sensor.Sensor
}

// Deps holds everything a run may be wired to. The zero value is a
// complete, process-local run with random readings.
type Deps struct {
	// Source drives the built-in sensors. Nil picks a random seed.
	Source sensor.RandomSource

	// Range bounds built-in readings. The zero value means
	// sensor.DefaultRange.
	Range sensor.Range

	// Concurrency is passed to sensor.WithConcurrency.
	Concurrency int

	// Extra sensors are registered after the built-ins; an ID equal to a
	// built-in replaces it.
	Extra []NamedSensor

	// Sinks receive every sweep's results.
	Sinks []sensor.ResultSink

	// Observers receive every unit transition, after the narrator and
	// the log observer.
	Observers []lifecycle.Observer

	// Metrics receives grid and energy monitor totals.
	Metrics grid.MetricWriter

	// CommunityJournal receives a copy of every feedback entry and
	// issue. It is never read back into the narration.
	CommunityJournal civic.Journal

	// App is the mobile app to drive. Nil creates one named AppName that
	// narrates to the scenario output.
	App *citizen.MobileApp

	Clock  clock.Clock
	Logger Logger
}

// Outcome is what a run produced, for callers that want more than the
// narration.
type Outcome struct {
	Readings     []sensor.Result
	Summary      analytics.Summary
	Grid         grid.Snapshot
	Consumption  float64
	Request      civic.Request
	Feedback     []civic.Entry
	Issues       []civic.Entry
	Patient      citizen.Patient
	Building     building.Status
	AlertsOnApp  int
	SignageShows string
}

// Scenario is one configured walkthrough.
type Scenario struct {
	out  *console.Narrator
	deps Deps
	log  Logger
}

// New creates a scenario narrating to out.
func New(out *console.Narrator, deps Deps) *Scenario {
	log := deps.Logger
	if log == nil {
		log = noopLogger{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.New()
	}
	if deps.Source == nil {
		deps.Source = sensor.NewSource(0)
	}
	if deps.Range == (sensor.Range{}) {
		deps.Range = sensor.DefaultRange
	}
	return &Scenario{out: out, deps: deps, log: log}
}

// Run performs the walkthrough once.
//
// Sensor failures never fail a run; they are narrated and counted in
// Outcome.Summary. An error is returned only when the context is already
// cancelled, the reading range is invalid, or narration cannot be
// written.
func (s *Scenario) Run(ctx context.Context) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	var out Outcome
	observers := s.observers()

	readings, err := s.monitor(ctx, observers)
	if err != nil {
		return Outcome{}, err
	}
	out.Readings = readings
	out.Summary = analytics.Summarize(readings)
	s.log.Info("sweep summarised",
		"sensors", out.Summary.Total,
		"failed", out.Summary.Failed,
		"mean", out.Summary.Mean,
	)

	out.Grid, out.Consumption = s.energy(observers)
	s.wifi(observers)

	app, signage := s.citizenSurfaces()
	out.AlertsOnApp = len(app.Alerts())
	out.SignageShows = signage.Current()

	analytics.NewBigData(s.out).Analyze("Smart City Data")
	analytics.NewPredictive(s.out).Forecast("Future City Trends")

	user := citizen.NewUser("JohnDoe")

	egov := civic.NewEGovernment(s.out, civic.WithEGovClock(s.deps.Clock))
	egov.SetLogger(s.log)
	if err := egov.DisplayServices(s.out); err != nil {
		return out, fmt.Errorf("displaying services: %w", err)
	}
	out.Request = egov.ProcessRequest(user, "Pay Taxes")
	s.log.Debug("service request processed", "request_id", out.Request.ID.String())

	if err := s.community(ctx, user, &out); err != nil {
		return out, err
	}

	out.Patient = citizen.NewPatient("P001", "Alice")
	s.log.Debug("patient registered", "patient_id", out.Patient.ID)

	b := building.New(s.out)
	b.LightsOn()
	b.ClimateControlOn()
	b.ArmSecurity()
	if err := b.Report(s.out); err != nil {
		return out, fmt.Errorf("reporting building status: %w", err)
	}
	out.Building = b.Status()

	return out, nil
}

func (s *Scenario) observers() []lifecycle.Observer {
	obs := []lifecycle.Observer{s.out, lifecycle.LogObserver(s.log)}
	return append(obs, s.deps.Observers...)
}

// monitor registers the sensors and sweeps them once while enabled.
func (s *Scenario) monitor(ctx context.Context, observers []lifecycle.Observer) ([]sensor.Result, error) {
	reg := sensor.NewRegistry(
		sensor.WithConcurrency(s.deps.Concurrency),
		sensor.WithClock(s.deps.Clock),
		sensor.WithSinks(s.deps.Sinks...),
		sensor.WithObservers(observers...),
	)
	reg.SetLogger(s.log)

	air, err := sensor.New(sensor.KindAirQuality, s.deps.Source, s.deps.Range)
	if err != nil {
		return nil, err
	}
	noise, err := sensor.New(sensor.KindNoiseLevel, s.deps.Source, s.deps.Range)
	if err != nil {
		return nil, err
	}
	reg.Register(AirQualitySensorID, air)
	reg.Register(NoiseLevelSensorID, noise)
	for _, ns := range s.deps.Extra {
		reg.Register(ns.ID, ns.Sensor)
	}

	reg.Enable()
	readings := reg.MeasureAll(ctx)
	sensor.FormatResults(s.out, readings) //nolint:errcheck // narration is best effort
	reg.Disable()

	return readings, nil
}

// energy drives the grid and the consumption monitor.
func (s *Scenario) energy(observers []lifecycle.Observer) (grid.Snapshot, float64) {
	g := grid.NewGrid(s.out, observers...)
	m := grid.NewEnergyMonitor(s.out, observers...)
	if s.deps.Metrics != nil {
		g.SetMetricWriter(s.deps.Metrics)
		m.SetMetricWriter(s.deps.Metrics)
	}

	g.SetLogger(s.log)
	m.SetLogger(s.log)

	g.Enable()
	g.IntegrateRenewable(50)
	g.Distribute(30)
	s.out.ReportStatus(g)
	g.Disable()

	m.Enable()
	m.Update(25)
	s.out.Printf("Current Energy Consumption: %s units", grid.FormatUnits(m.Current()))
	m.Disable()

	return g.Snapshot(), m.Current()
}

func (s *Scenario) wifi(observers []lifecycle.Observer) {
	w := connectivity.NewPublicWiFi(observers...)
	w.Enable()
	w.Report(s.out) //nolint:errcheck // narration is best effort
	w.Disable()
}

func (s *Scenario) citizenSurfaces() (*citizen.MobileApp, *citizen.Signage) {
	app := s.deps.App
	if app == nil {
		app = citizen.NewMobileApp(AppName, s.out)
	}
	app.AccessServices()
	app.ReportIssue()
	app.ReceiveAlert("Welcome to Smart City!")

	signage := citizen.NewSignage(s.out)
	signage.Display("Welcome to Smart City!")
	return app, signage
}

func (s *Scenario) community(ctx context.Context, user citizen.User, out *Outcome) error {
	opts := []civic.CommunityOption{civic.WithCommunityClock(s.deps.Clock)}
	if s.deps.CommunityJournal != nil {
		opts = append(opts, civic.WithJournal(s.deps.CommunityJournal))
	}
	c := civic.NewCommunity(s.out, opts...)
	c.SetLogger(s.log)

	c.CollectFeedback(ctx, user, "Great city services!")
	c.ReportIssue(ctx, user, "Pothole on Main Street")
	if err := c.Report(s.out); err != nil {
		return fmt.Errorf("reporting community entries: %w", err)
	}

	out.Feedback = c.Feedback()
	out.Issues = c.Issues()
	return nil
}

// Run builds a scenario writing plain narration to w and runs it.
func Run(ctx context.Context, w io.Writer, deps Deps) (Outcome, error) {
	return New(console.New(w, false), deps).Run(ctx)
}
