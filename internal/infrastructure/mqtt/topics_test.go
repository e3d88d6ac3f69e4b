package mqtt

import "testing"

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"SensorReading", topics.SensorReading("AirQualitySensor"), "smartcity/sensor/AirQualitySensor/reading"},
		{"SensorReading reserved chars", topics.SensorReading("a/b+c#"), "smartcity/sensor/a%2Fb%2Bc%23/reading"},
		{"SensorReading percent", topics.SensorReading("50%"), "smartcity/sensor/50%25/reading"},
		{"SensorReading underscore untouched", topics.SensorReading("a_b"), "smartcity/sensor/a_b/reading"},
		{"SensorReading empty", topics.SensorReading(""), "smartcity/sensor//reading"},
		{"UnitState", topics.UnitState("MonitoringSystem"), "smartcity/unit/MonitoringSystem/state"},
		{"Alert", topics.Alert("flood"), "smartcity/alert/flood"},
		{"AllAlerts", topics.AllAlerts(), "smartcity/alert/+"},
		{"SystemStatus", topics.SystemStatus(), "smartcity/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSegment_DistinctIDsStayDistinct(t *testing.T) {
	ids := []string{"a/b", "a_b", "a%2Fb", "a+b", "a#b", "a%b", "", "_"}

	seen := make(map[string]string, len(ids))
	for _, id := range ids {
		level := segment(id)
		if prev, dup := seen[level]; dup {
			t.Errorf("segment(%q) = segment(%q) = %q", id, prev, level)
		}
		seen[level] = id
	}
}

func TestAlertID_RoundTrip(t *testing.T) {
	topics := Topics{}

	for _, id := range []string{"flood-warning", "a/b", "a_b", "50%", "x+y#z", ""} {
		got, ok := topics.AlertID(topics.Alert(id))
		if !ok {
			t.Errorf("AlertID(Alert(%q)) not ok", id)
			continue
		}
		if got != id {
			t.Errorf("AlertID(Alert(%q)) = %q", id, got)
		}
	}
}

func TestAlertID_Rejects(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name  string
		topic string
	}{
		{"other namespace", "smartcity/unit/x/state"},
		{"nested level", "smartcity/alert/a/b"},
		{"bad escape", "smartcity/alert/%zz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if id, ok := topics.AlertID(tt.topic); ok {
				t.Errorf("AlertID(%q) = %q, true; want false", tt.topic, id)
			}
		})
	}
}
