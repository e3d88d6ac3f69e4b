// Package kafka exports sensor sweeps to a Kafka topic.
//
// The export is optional and disabled by default. Each sweep becomes one
// batch of JSON sensor records keyed by sensor id, written synchronously
// with a single-broker acknowledgement through segmentio/kafka-go.
//
// Usage:
//
//	producer, err := kafka.NewProducer(cfg.Kafka)
//	if err != nil {
//	    return err
//	}
//	defer producer.Close()
//
//	registry.AddSink(kafka.NewReadingSink(producer, cfg.Site.ID))
package kafka
