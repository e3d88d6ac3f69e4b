package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nerrad567/smartcity-core/internal/lifecycle"
	"github.com/nerrad567/smartcity-core/internal/sensor"
)

// ReadingSink publishes every sweep result to Topics.SensorReading.
// It implements sensor.ResultSink.
type ReadingSink struct {
	pub    Publisher
	siteID string
	qos    byte
}

var _ sensor.ResultSink = (*ReadingSink)(nil)

// NewReadingSink creates a sink publishing through pub.
func NewReadingSink(pub Publisher, siteID string, qos byte) *ReadingSink {
	return &ReadingSink{pub: pub, siteID: siteID, qos: qos}
}

// Consume publishes one non-retained message per result. Every result is
// attempted; the returned error joins all publish failures.
func (s *ReadingSink) Consume(ctx context.Context, results []sensor.Result) error {
	var errs []error
	for _, res := range results {
		if err := ctx.Err(); err != nil {
			return errors.Join(append(errs, err)...)
		}

		payload, err := json.Marshal(sensor.NewRecord(s.siteID, res))
		if err != nil {
			errs = append(errs, fmt.Errorf("encoding reading %s: %w", res.ID, err))
			continue
		}
		if err := s.pub.Publish(Topics{}.SensorReading(res.ID), payload, s.qos, false); err != nil {
			errs = append(errs, fmt.Errorf("publishing reading %s: %w", res.ID, err))
		}
	}
	return errors.Join(errs...)
}

// StateMessage is the retained JSON body published per unit transition.
type StateMessage struct {
	Unit      string `json:"unit"`
	State     string `json:"state"`
	Timestamp string `json:"timestamp"`
}

// StatePublisher is a lifecycle.Observer that mirrors unit state onto
// Topics.UnitState as retained messages.
type StatePublisher struct {
	pub    Publisher
	qos    byte
	logger Logger
}

var _ lifecycle.Observer = (*StatePublisher)(nil)

// NewStatePublisher creates an observer publishing through pub.
// Publish failures are reported to logger when it is non-nil.
func NewStatePublisher(pub Publisher, qos byte, logger Logger) *StatePublisher {
	return &StatePublisher{pub: pub, qos: qos, logger: logger}
}

// OnTransition implements lifecycle.Observer.
func (p *StatePublisher) OnTransition(ev lifecycle.Event) {
	payload, _ := json.Marshal(StateMessage{ //nolint:errcheck // Fixed struct always marshals
		Unit:      ev.Unit,
		State:     ev.State(),
		Timestamp: ev.At.UTC().Format(time.RFC3339),
	})

	if err := p.pub.Publish(Topics{}.UnitState(ev.Unit), payload, p.qos, true); err != nil && p.logger != nil {
		p.logger.Warn("publishing unit state failed", "unit", ev.Unit, "error", err)
	}
}
