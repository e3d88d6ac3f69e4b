package kafka

import "errors"

// Sentinel errors for Kafka export.
var (
	// ErrDisabled indicates Kafka export is disabled in config.
	ErrDisabled = errors.New("kafka: disabled in configuration")

	// ErrNoBrokers indicates an enabled export without broker addresses.
	ErrNoBrokers = errors.New("kafka: no brokers configured")

	// ErrWriteFailed wraps failures returned by the writer.
	ErrWriteFailed = errors.New("kafka: write failed")

	// ErrClosed is returned by writes after Close.
	ErrClosed = errors.New("kafka: producer closed")
)
