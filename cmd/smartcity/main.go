// Smart City Core - scripted smart city simulation.
//
// This is the main entry point. It runs the city walkthrough once,
// narrating to stdout and logging to stderr, then exits. Export sinks
// (SQLite journal, MQTT, InfluxDB, Kafka) are enabled in config.yaml;
// a sink that cannot be reached is logged and skipped.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/smartcity-core/internal/citizen"
	"github.com/nerrad567/smartcity-core/internal/city"
	"github.com/nerrad567/smartcity-core/internal/civic"
	"github.com/nerrad567/smartcity-core/internal/console"
	"github.com/nerrad567/smartcity-core/internal/infrastructure/config"
	"github.com/nerrad567/smartcity-core/internal/infrastructure/database"
	"github.com/nerrad567/smartcity-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/smartcity-core/internal/infrastructure/kafka"
	"github.com/nerrad567/smartcity-core/internal/infrastructure/logging"
	"github.com/nerrad567/smartcity-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/smartcity-core/internal/sensor"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run loads configuration, wires the optional sinks and runs the
// scenario once.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//   - stdout: Destination for the narration
//
// Returns:
//   - error: nil on a completed run, or the configuration/scenario failure
func run(ctx context.Context, stdout io.Writer) error {
	log := logging.Default()
	log.Info("starting Smart City Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
		"site", cfg.Site.ID,
	)

	narrator := console.New(stdout, cfg.Console.Color)
	src := sensor.NewSource(cfg.Monitoring.Seed)
	rng := sensor.Range{Min: cfg.Monitoring.ReadingMin, Max: cfg.Monitoring.ReadingMax}

	extra, err := configuredSensors(cfg.Monitoring.Sensors, src, rng)
	if err != nil {
		return err
	}

	app := citizen.NewMobileApp(city.AppName, narrator)
	deps := city.Deps{
		Source:      src,
		Range:       rng,
		Concurrency: cfg.Monitoring.Concurrency,
		Extra:       extra,
		App:         app,
		Logger:      log.Component("scenario"),
	}

	closers := wireSinks(ctx, cfg, log, app, &deps)
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	out, err := city.New(narrator, deps).Run(ctx)
	if err != nil {
		return fmt.Errorf("running scenario: %w", err)
	}

	log.Info("scenario complete",
		"sensors", out.Summary.Total,
		"failed_sensors", out.Summary.Failed,
		"request_id", out.Request.ID.String(),
	)
	return nil
}

// loadConfig reads SMARTCITY_CONFIG when set. Otherwise the default path
// is used, falling back to built-in defaults when that file is absent.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("SMARTCITY_CONFIG"); path != "" {
		return config.Load(path)
	}
	return config.LoadOrDefault(defaultConfigPath)
}

func configuredSensors(specs []config.SensorConfig, src sensor.RandomSource, rng sensor.Range) ([]city.NamedSensor, error) {
	extra := make([]city.NamedSensor, 0, len(specs))
	for _, sc := range specs {
		s, err := sensor.New(sensor.Kind(sc.Kind), src, rng)
		if err != nil {
			return nil, fmt.Errorf("building sensor %s: %w", sc.ID, err)
		}
		extra = append(extra, city.NamedSensor{ID: sc.ID, Sensor: s})
	}
	return extra, nil
}

// wireSinks connects every enabled export and records it in deps. A sink
// that fails to connect is logged and left out. The returned closers run
// in reverse order on shutdown.
func wireSinks(ctx context.Context, cfg *config.Config, log *logging.Logger, app *citizen.MobileApp, deps *city.Deps) []func() {
	var closers []func()

	if cfg.Database.Enabled {
		jlog := log.Component("journal")
		db, err := openJournal(ctx, cfg.Database)
		if err != nil {
			jlog.Warn("journal unavailable, continuing without it", "error", err)
		} else {
			closers = append(closers, func() {
				jlog.Info("closing journal")
				if closeErr := db.Close(); closeErr != nil {
					jlog.Error("error closing journal", "error", closeErr)
				}
			})
			community := civic.NewSQLiteJournal(db.DB, "")
			deps.Sinks = append(deps.Sinks, sensor.NewSQLiteHistoryRepository(db.DB))
			deps.CommunityJournal = community
			jlog.Info("journal connected", "path", db.Path(), "run_id", community.RunID())
		}
	}

	if cfg.MQTT.Enabled {
		mlog := log.Component("mqtt")
		client, err := mqtt.Connect(cfg.MQTT)
		if err == nil {
			err = healthy(ctx, client)
		}
		if err != nil {
			mlog.Warn("MQTT unavailable, continuing without it", "error", err)
		} else {
			client.SetLogger(mlog)
			closers = append(closers, func() {
				mlog.Info("disconnecting from MQTT")
				if closeErr := client.Close(); closeErr != nil {
					mlog.Error("error closing MQTT", "error", closeErr)
				}
			})
			qos := client.DefaultQoS()
			deps.Sinks = append(deps.Sinks, mqtt.NewReadingSink(client, cfg.Site.ID, qos))
			deps.Observers = append(deps.Observers, mqtt.NewStatePublisher(client, qos, mlog))
			if subErr := client.Subscribe(mqtt.Topics{}.AllAlerts(), qos, func(topic string, payload []byte) error {
				if id, ok := (mqtt.Topics{}).AlertID(topic); ok {
					mlog.Debug("alert received", "alert_id", id)
				}
				app.ReceiveAlert(string(payload))
				return nil
			}); subErr != nil {
				mlog.Warn("alert subscription failed", "error", subErr)
			}
			mlog.Info("MQTT connected",
				"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
				"client_id", cfg.MQTT.Broker.ClientID,
			)
		}
	}

	if cfg.InfluxDB.Enabled {
		ilog := log.Component("influxdb")
		client, err := influxdb.Connect(ctx, cfg.InfluxDB)
		if err == nil {
			err = healthy(ctx, client)
		}
		if err != nil {
			ilog.Warn("InfluxDB unavailable, continuing without it", "error", err)
		} else {
			client.SetOnError(func(err error) {
				ilog.Error("InfluxDB write error", "error", err)
			})
			closers = append(closers, func() {
				ilog.Info("closing InfluxDB connection")
				if closeErr := client.Close(); closeErr != nil {
					ilog.Error("error closing InfluxDB", "error", closeErr)
				}
			})
			deps.Sinks = append(deps.Sinks, influxdb.NewReadingSink(client, cfg.Site.ID))
			deps.Metrics = client
			ilog.Info("InfluxDB connected",
				"url", cfg.InfluxDB.URL,
				"org", cfg.InfluxDB.Org,
				"bucket", cfg.InfluxDB.Bucket,
			)
		}
	}

	if cfg.Kafka.Enabled {
		klog := log.Component("kafka")
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			klog.Warn("Kafka unavailable, continuing without it", "error", err)
		} else {
			closers = append(closers, func() {
				klog.Info("closing Kafka producer")
				if closeErr := producer.Close(); closeErr != nil {
					klog.Error("error closing Kafka producer", "error", closeErr)
				}
			})
			deps.Sinks = append(deps.Sinks, kafka.NewReadingSink(producer, cfg.Site.ID))
			klog.Info("Kafka producer ready", "brokers", cfg.Kafka.Brokers, "topic", producer.Topic())
		}
	}

	return closers
}

// healthChecker is satisfied by every connected export client.
type healthChecker interface {
	HealthCheck(ctx context.Context) error
	Close() error
}

// healthy confirms a freshly connected client answers. A client that does
// not is closed so the caller can skip it.
func healthy(ctx context.Context, c healthChecker) error {
	if err := c.HealthCheck(ctx); err != nil {
		c.Close() //nolint:errcheck // Best effort cleanup on error path
		return err
	}
	return nil
}

func openJournal(ctx context.Context, cfg config.DatabaseConfig) (*database.DB, error) {
	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := healthy(ctx, db); err != nil {
		return nil, err
	}
	return db, nil
}
