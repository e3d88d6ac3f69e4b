// Package sensor implements the city's sensor registry.
//
// A Registry maps identifiers to Sensors and sweeps them with fault
// isolation: every registered identifier yields exactly one Result, and
// an error or panic in one sensor is captured in that Result without
// affecting the others. The registry is a lifecycle unit named
// "MonitoringSystem"; its enabled state is reported but does not gate
// sweeps.
//
// Built-in simulated variants (AirQuality, NoiseLevel) draw readings from
// an injected RandomSource so tests can be deterministic. New variants
// are added by implementing Sensor; the registry never changes.
//
// Results can be handed to ResultSinks (MQTT, InfluxDB, Kafka, the SQLite
// journal) after each sweep. Sinks only observe; their failures are
// logged and never alter the returned results.
//
// Usage:
//
//	reg := sensor.NewRegistry(sensor.WithConcurrency(4))
//	reg.Enable()
//	reg.Register("AirQualitySensor", sensor.NewAirQuality(src))
//	results := reg.MeasureAll(ctx)
//	_ = sensor.FormatResults(os.Stdout, results)
//	reg.Disable()
package sensor
