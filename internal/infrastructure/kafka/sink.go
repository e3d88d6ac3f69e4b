package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/nerrad567/smartcity-core/internal/sensor"
)

// ReadingSink publishes each sweep as one batch of JSON sensor records,
// keyed by sensor id so a sensor's readings stay on one partition.
// It implements sensor.ResultSink.
type ReadingSink struct {
	producer *Producer
	siteID   string
}

var _ sensor.ResultSink = (*ReadingSink)(nil)

// NewReadingSink creates a sink writing through producer.
func NewReadingSink(producer *Producer, siteID string) *ReadingSink {
	return &ReadingSink{producer: producer, siteID: siteID}
}

// Consume encodes every result and writes the batch.
func (s *ReadingSink) Consume(ctx context.Context, results []sensor.Result) error {
	msgs := make([]kafkago.Message, 0, len(results))
	for _, res := range results {
		value, err := json.Marshal(sensor.NewRecord(s.siteID, res))
		if err != nil {
			return fmt.Errorf("encoding reading %s: %w", res.ID, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(res.ID),
			Value: value,
			Time:  res.MeasuredAt,
		})
	}
	return s.producer.Write(ctx, msgs...)
}
