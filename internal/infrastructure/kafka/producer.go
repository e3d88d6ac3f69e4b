package kafka

import (
	"context"
	"fmt"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/nerrad567/smartcity-core/internal/infrastructure/config"
)

const (
	defaultWriteTimeout = 5 * time.Second

	// batchTimeout keeps sweep latency low; a sweep is one batch.
	batchTimeout = 50 * time.Millisecond
)

// messageWriter is the subset of *kafkago.Writer the producer uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Producer writes keyed messages to a single topic.
//
// Writes are synchronous and require one broker acknowledgement. All
// methods are safe for concurrent use.
type Producer struct {
	writer       messageWriter
	topic        string
	writeTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewProducer builds a producer for the configured topic. It does not
// dial; the first write establishes connections.
//
// Returns:
//   - *Producer: Ready-to-use producer
//   - error: ErrDisabled or ErrNoBrokers
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	if !cfg.Enabled {
		return nil, ErrDisabled
	}
	if len(cfg.Brokers) == 0 {
		return nil, ErrNoBrokers
	}

	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		Async:        false,
		BatchTimeout: batchTimeout,
		WriteTimeout: writeTimeout(cfg),
	}
	return newProducer(w, cfg), nil
}

func newProducer(w messageWriter, cfg config.KafkaConfig) *Producer {
	return &Producer{writer: w, topic: cfg.Topic, writeTimeout: writeTimeout(cfg)}
}

func writeTimeout(cfg config.KafkaConfig) time.Duration {
	if cfg.WriteTimeout > 0 {
		return cfg.WriteTimeout
	}
	return defaultWriteTimeout
}

// Topic returns the destination topic.
func (p *Producer) Topic() string {
	return p.topic
}

// Write sends msgs in one batch, bounded by the write timeout.
func (p *Producer) Write(ctx context.Context, msgs ...kafkago.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	writeCtx, cancel := context.WithTimeout(ctx, p.writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, msgs...); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	return nil
}

// Close flushes and closes the writer. Safe to call more than once.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true

	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("closing kafka writer: %w", err)
	}
	return nil
}
