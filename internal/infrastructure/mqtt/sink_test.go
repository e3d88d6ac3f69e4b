package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/nerrad567/smartcity-core/internal/lifecycle"
	"github.com/nerrad567/smartcity-core/internal/sensor"
)

type published struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// fakePublisher records publishes and fails topics listed in failOn.
type fakePublisher struct {
	mu     sync.Mutex
	msgs   []published
	failOn map[string]bool
}

func (f *fakePublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn[topic] {
		return ErrNotConnected
	}
	f.msgs = append(f.msgs, published{topic: topic, payload: payload, qos: qos, retained: retained})
	return nil
}

type warnLogger struct{ warnings []string }

func (l *warnLogger) Error(msg string, _ ...any) {}
func (l *warnLogger) Warn(msg string, _ ...any)  { l.warnings = append(l.warnings, msg) }

func sweepResults() []sensor.Result {
	at := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	return []sensor.Result{
		{ID: "A", Value: 42, MeasuredAt: at},
		{ID: "B", Err: &sensor.MeasurementError{SensorID: "B", Err: errors.New("sensor offline")}, MeasuredAt: at},
	}
}

func TestReadingSink_Consume(t *testing.T) {
	pub := &fakePublisher{}
	sink := NewReadingSink(pub, "city-001", 1)

	if err := sink.Consume(context.Background(), sweepResults()); err != nil {
		t.Fatalf("Consume() error = %v", err)
	}

	if len(pub.msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.msgs))
	}

	var got []sensor.Record
	for i, m := range pub.msgs {
		if m.retained || m.qos != 1 {
			t.Errorf("msg %d: retained=%v qos=%d, want false/1", i, m.retained, m.qos)
		}
		var rm sensor.Record
		if err := json.Unmarshal(m.payload, &rm); err != nil {
			t.Fatalf("msg %d: invalid JSON: %v", i, err)
		}
		got = append(got, rm)
	}

	if pub.msgs[0].topic != "smartcity/sensor/A/reading" {
		t.Errorf("topic = %q", pub.msgs[0].topic)
	}

	v := 42.0
	want := []sensor.Record{
		{SiteID: "city-001", SensorID: "A", OK: true, Value: &v, MeasuredAt: "2026-10-19T10:00:00Z"},
		{SiteID: "city-001", SensorID: "B", OK: false, Reason: "sensor offline", MeasuredAt: "2026-10-19T10:00:00Z"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestReadingSink_PartialFailure(t *testing.T) {
	pub := &fakePublisher{failOn: map[string]bool{"smartcity/sensor/A/reading": true}}
	sink := NewReadingSink(pub, "city-001", 0)

	err := sink.Consume(context.Background(), sweepResults())
	if !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Consume() error = %v, want ErrNotConnected", err)
	}
	if len(pub.msgs) != 1 {
		t.Errorf("published %d messages, want 1 (B still attempted)", len(pub.msgs))
	}
}

func TestReadingSink_CancelledContext(t *testing.T) {
	pub := &fakePublisher{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewReadingSink(pub, "x", 0).Consume(ctx, sweepResults())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Consume() error = %v, want context.Canceled", err)
	}
	if len(pub.msgs) != 0 {
		t.Errorf("published %d messages after cancel", len(pub.msgs))
	}
}

func TestReadingSink_AsRegistrySink(t *testing.T) {
	pub := &fakePublisher{}
	reg := sensor.NewRegistry(sensor.WithSinks(NewReadingSink(pub, "city-001", 1)))
	reg.Register("NoiseLevelSensor", sensor.Func(func(context.Context) (float64, error) { return 3, nil }))

	reg.MeasureAll(context.Background())

	if len(pub.msgs) != 1 || pub.msgs[0].topic != "smartcity/sensor/NoiseLevelSensor/reading" {
		t.Errorf("published = %+v", pub.msgs)
	}
}

func TestStatePublisher(t *testing.T) {
	pub := &fakePublisher{}
	logger := &warnLogger{}

	sw := lifecycle.NewSwitch("SmartGrid", NewStatePublisher(pub, 1, logger))
	sw.SetClock(func() time.Time { return time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC) })
	sw.Enable()
	sw.Disable()

	if len(pub.msgs) != 2 {
		t.Fatalf("published %d messages, want 2", len(pub.msgs))
	}
	for _, m := range pub.msgs {
		if m.topic != "smartcity/unit/SmartGrid/state" || !m.retained {
			t.Errorf("msg = %+v, want retained on unit state topic", m)
		}
	}

	var last StateMessage
	if err := json.Unmarshal(pub.msgs[1].payload, &last); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	want := StateMessage{Unit: "SmartGrid", State: lifecycle.StatusDisabled, Timestamp: "2026-10-19T11:00:00Z"}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("state message mismatch (-want +got):\n%s", diff)
	}

	pub.failOn = map[string]bool{"smartcity/unit/SmartGrid/state": true}
	sw.Enable()
	if len(logger.warnings) != 1 {
		t.Errorf("warnings = %v, want one publish failure", logger.warnings)
	}
	if !sw.Enabled() {
		t.Error("publish failure must not affect the unit state")
	}
}
