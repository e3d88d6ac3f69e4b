package sensor

import "context"

// ResultSink receives the results of every sweep, after they have been
// computed. Sinks are export adapters (MQTT, InfluxDB, Kafka, the SQLite
// journal); an error from one sink is logged by the registry and never
// affects the sweep or the other sinks.
type ResultSink interface {
	Consume(ctx context.Context, results []Result) error
}

// SinkFunc adapts a plain function to ResultSink.
type SinkFunc func(ctx context.Context, results []Result) error

// Consume implements ResultSink.
func (f SinkFunc) Consume(ctx context.Context, results []Result) error { return f(ctx, results) }
