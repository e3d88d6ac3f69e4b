package influxdb

import (
	"context"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/nerrad567/smartcity-core/internal/sensor"
)

// Measurement names.
const (
	MeasurementSensorReading = "sensor_reading"
	MeasurementEnergy        = "energy"
)

// SensorReadingPoint converts a sweep result into a point.
//
// Successful results carry a "value" field; failed ones carry "failure"
// with the reason. Both are tagged with site, sensor and status so
// dashboards can count failures per sensor.
func SensorReadingPoint(siteID string, res sensor.Result) *write.Point {
	status := "ok"
	fields := map[string]any{}
	if res.OK() {
		fields["value"] = res.Value
	} else {
		status = "failed"
		fields["failure"] = res.Reason()
	}

	at := res.MeasuredAt
	if at.IsZero() {
		at = time.Now()
	}

	return write.NewPoint(
		MeasurementSensorReading,
		map[string]string{
			"site_id":   siteID,
			"sensor_id": res.ID,
			"status":    status,
		},
		fields,
		at,
	)
}

// WriteSensorReading writes one sweep result. No-op when disconnected.
func (c *Client) WriteSensorReading(siteID string, res sensor.Result) {
	if !c.IsConnected() {
		return
	}
	c.writer.WritePoint(SensorReadingPoint(siteID, res))
}

// WriteEnergy records an energy figure from the grid.
//
// Parameters:
//   - unit: Reporting unit (e.g. "SmartGrid", "EnergyConsumptionMonitor")
//   - metric: Field name (e.g. "renewable_units", "consumption_units")
//   - value: Running total after the update
func (c *Client) WriteEnergy(unit, metric string, value float64) {
	if !c.IsConnected() {
		return
	}

	c.writer.WritePoint(write.NewPoint(
		MeasurementEnergy,
		map[string]string{"unit": unit},
		map[string]any{metric: value},
		time.Now(),
	))
}

// ReadingSink writes every sweep result as a sensor_reading point.
// It implements sensor.ResultSink.
type ReadingSink struct {
	client *Client
	siteID string
}

var _ sensor.ResultSink = (*ReadingSink)(nil)

// NewReadingSink creates a sink writing through client, tagging points
// with siteID.
func NewReadingSink(client *Client, siteID string) *ReadingSink {
	return &ReadingSink{client: client, siteID: siteID}
}

// Consume queues every result for batched writing. Errors from the
// batch itself arrive later through Client.SetOnError.
func (s *ReadingSink) Consume(ctx context.Context, results []sensor.Result) error {
	if !s.client.IsConnected() {
		return ErrNotConnected
	}
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.client.WriteSensorReading(s.siteID, res)
	}
	return nil
}
