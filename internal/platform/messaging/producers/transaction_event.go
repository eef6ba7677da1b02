package producers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/corebank-ledger/internal/config"
)

// TransactionEventProducer publishes committed ledger transactions to
// the event topic. Writes are synchronous with full acks so the outbox
// publisher only marks a message done once the broker has it.
type TransactionEventProducer struct {
	logger *slog.Logger
	writer KafkaWriter // Interface for testability
	topic  string
}

// Creates a new event producer and ensures the topic exists
func NewTransactionEventProducer(ctx context.Context, logger *slog.Logger, cfg *config.KafkaConfig) (*TransactionEventProducer, error) {
	if cfg.EventTopic == "" {
		return nil, fmt.Errorf("kafka event topic is not configured")
	}

	conn, err := kafka.Dial("tcp", cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("failed to dial kafka for event producer: %w", err)
	}
	defer conn.Close()

	err = createKafkaTopicIfNotExists(conn, cfg.EventTopic, cfg.NumPartitions, cfg.ReplicationFactor, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure event topic %s exists: %w", cfg.EventTopic, err)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers),
		Topic:        cfg.EventTopic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		WriteTimeout: cfg.MaxWait,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Error("Failed to write event messages", "topic", cfg.EventTopic, "error", err, "count", len(messages))
			} else {
				logger.Debug("Successfully wrote event messages", "topic", cfg.EventTopic, "count", len(messages))
			}
		},
	}

	return &TransactionEventProducer{
		logger: logger,
		writer: writer,
		topic:  cfg.EventTopic,
	}, nil
}

func (p *TransactionEventProducer) Publish(ctx context.Context, key string, value interface{}) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal message value for event producer: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: jsonValue,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event message",
			"topic", p.topic,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("failed to publish message to %s via event producer: %w", p.topic, err)
	}

	p.logger.Debug("Published event message",
		"topic", p.topic,
		"key", key,
	)
	return nil
}

func (p *TransactionEventProducer) Close() error {
	p.logger.Info("Closing Kafka event producer", "topic", p.topic)
	if err := p.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer for topic %s: %w", p.topic, err)
	}
	return nil
}
