package sensor

import "time"

// Record is the wire form of a Result shared by the export sinks.
type Record struct {
	SiteID     string   `json:"site_id"`
	SensorID   string   `json:"sensor_id"`
	OK         bool     `json:"ok"`
	Value      *float64 `json:"value,omitempty"`
	Reason     string   `json:"reason,omitempty"`
	MeasuredAt string   `json:"measured_at"`
}

// NewRecord converts a sweep result into its wire form.
// Value is set only for successful results, Reason only for failures.
func NewRecord(siteID string, res Result) Record {
	rec := Record{
		SiteID:     siteID,
		SensorID:   res.ID,
		OK:         res.OK(),
		MeasuredAt: res.MeasuredAt.UTC().Format(time.RFC3339Nano),
	}
	if res.OK() {
		v := res.Value
		rec.Value = &v
	} else {
		rec.Reason = res.Reason()
	}
	return rec
}
