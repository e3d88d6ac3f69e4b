package sensor

import (
	"fmt"
	"io"
)

// FormatResults writes the sweep report shown to operators:
//
//	Current Sensor Measurements:
//	AirQualitySensor: 42.5
//	NoiseLevelSensor: Measurement failed. Reason: sensor offline
func FormatResults(w io.Writer, results []Result) error {
	if _, err := fmt.Fprintln(w, "Current Sensor Measurements:"); err != nil {
		return err
	}
	for _, res := range results {
		if _, err := fmt.Fprintln(w, FormatResult(res)); err != nil {
			return err
		}
	}
	return nil
}

// FormatResult renders one line of the sweep report.
func FormatResult(res Result) string {
	if !res.OK() {
		return fmt.Sprintf("%s: Measurement failed. Reason: %s", res.ID, res.Reason())
	}
	return fmt.Sprintf("%s: %v", res.ID, res.Value)
}
