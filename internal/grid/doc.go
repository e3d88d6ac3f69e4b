// Package grid models the city's smart grid and energy consumption monitor.
//
// Grid accumulates renewable production and distributed consumption;
// EnergyMonitor keeps a running consumption total. Both are lifecycle
// units. Updates never fail: non-finite amounts are logged and skipped,
// negative ones are logged and applied. Running totals can be exported
// through a MetricWriter such as the InfluxDB client.
package grid
