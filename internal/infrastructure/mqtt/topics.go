package mqtt

import (
	"fmt"
	"net/url"
	"strings"
)

// TopicPrefix is the root of every Smart City topic.
const TopicPrefix = "smartcity"

// Topics provides builders for Smart City MQTT topics.
//
//	topics := mqtt.Topics{}
//	topics.SensorReading("AirQualitySensor")
//	// Returns: "smartcity/sensor/AirQualitySensor/reading"
type Topics struct{}

// SensorReading is where each sweep result for one sensor is published.
//
// Example: smartcity/sensor/NoiseLevelSensor/reading
func (Topics) SensorReading(sensorID string) string {
	return fmt.Sprintf("%s/sensor/%s/reading", TopicPrefix, segment(sensorID))
}

// UnitState carries the retained enabled/disabled state of a unit.
//
// Example: smartcity/unit/MonitoringSystem/state
func (Topics) UnitState(unit string) string {
	return fmt.Sprintf("%s/unit/%s/state", TopicPrefix, segment(unit))
}

// Alert is a public alert addressed to citizen apps.
//
// Example: smartcity/alert/flood-warning
func (Topics) Alert(alertID string) string {
	return fmt.Sprintf("%s/alert/%s", TopicPrefix, segment(alertID))
}

// AllAlerts matches every public alert.
//
// Pattern: smartcity/alert/+
func (Topics) AllAlerts() string {
	return TopicPrefix + "/alert/+"
}

// SystemStatus is the retained online/offline status of the process.
//
// Example: smartcity/system/status
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// AlertID recovers the alert identifier from a topic built by Alert.
// It reports false for topics outside smartcity/alert/ or with a
// malformed escape.
func (Topics) AlertID(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, TopicPrefix+"/alert/")
	if !ok || strings.Contains(rest, "/") {
		return "", false
	}
	id, err := url.PathUnescape(rest)
	if err != nil {
		return "", false
	}
	return id, true
}

// segmentReplacer percent-escapes the characters MQTT reserves in topic
// levels. "%" is escaped too so distinct identifiers never share a level.
var segmentReplacer = strings.NewReplacer(
	"%", "%25",
	"/", "%2F",
	"+", "%2B",
	"#", "%23",
	"\x00", "%00",
)

// segment makes an identifier safe for a single topic level. The
// encoding is reversible with url.PathUnescape.
func segment(id string) string {
	return segmentReplacer.Replace(id)
}
