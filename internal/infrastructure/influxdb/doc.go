// Package influxdb exports Smart City time series to InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. When enabled, it
// records:
//   - One sensor_reading point per sweep result (via ReadingSink)
//   - energy points for grid production and consumption totals
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	registry.AddSink(influxdb.NewReadingSink(client, cfg.Site.ID))
//
// Writes are non-blocking and batched according to batch_size and
// flush_interval. Batch errors are delivered to the SetOnError callback;
// connection and health check errors are returned directly.
package influxdb
