package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/corebank-ledger/internal/config"
	"github.com/corebank-ledger/internal/domain/outbox"
	"github.com/corebank-ledger/internal/platform/messaging/producers"
)

// Publisher drains the transaction outbox into the Kafka event topic.
// Messages are deleted once the broker acknowledges them; failed
// messages are retried on later ticks until the attempt limit, then
// parked as FAILED_TO_PUBLISH for manual inspection.
type Publisher struct {
	outboxRepo       outbox.Repository
	producer         producers.MessagePublisher
	pool             *ants.Pool
	logger           *slog.Logger
	pollInterval     time.Duration
	batchSize        int
	maxRetryAttempts int
}

func NewPublisher(
	cfg *config.OutboxConfig,
	outboxRepo outbox.Repository,
	producer producers.MessagePublisher,
	logger *slog.Logger,
) (*Publisher, error) {
	pool, err := ants.NewPool(cfg.WorkerPoolSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create publisher worker pool: %w", err)
	}

	return &Publisher{
		outboxRepo:       outboxRepo,
		producer:         producer,
		pool:             pool,
		logger:           logger,
		pollInterval:     cfg.PollingInterval,
		batchSize:        cfg.BatchSize,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}, nil
}

// Start begins polling until the context is canceled
func (p *Publisher) Start(ctx context.Context) {
	p.logger.Info("Starting outbox event publisher",
		"poll_interval", p.pollInterval.String(),
		"batch_size", p.batchSize,
		"max_retry_attempts", p.maxRetryAttempts,
	)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("Outbox event publisher stopping due to context cancellation.")
			return
		case <-ticker.C:
			if err := p.processPending(ctx); err != nil {
				p.logger.Error("Error during batch processing of pending outbox messages", "error", err)
			}
		}
	}
}

// Shutdown releases the worker pool
func (p *Publisher) Shutdown() {
	p.logger.Info("Shutting down outbox publisher worker pool", "running_workers", p.pool.Running())
	p.pool.Release()
}

func (p *Publisher) processPending(ctx context.Context) error {
	messages, err := p.outboxRepo.GetPending(ctx, p.batchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending outbox messages: %w", err)
	}

	if len(messages) == 0 {
		return nil
	}

	p.logger.Info("Fetched pending outbox messages", "count", len(messages))

	var wg sync.WaitGroup
	for _, msg := range messages {
		msg := msg
		wg.Add(1)
		if err := p.pool.Submit(func() {
			defer wg.Done()
			p.publish(ctx, msg)
		}); err != nil {
			wg.Done()
			p.logger.Error("Failed to submit outbox message to worker pool", "outbox_id", msg.ID, "error", err)
		}
	}
	wg.Wait()
	return nil
}

func (p *Publisher) publish(ctx context.Context, msg *outbox.Message) {
	err := p.producer.Publish(ctx, msg.AccountID.String(), msg.Payload)
	if err != nil {
		p.logger.Error("Failed to publish outbox message",
			"outbox_id", msg.ID, "transaction_id", msg.TransactionID, "current_attempts", msg.Attempts, "error", err,
		)

		if errInc := p.outboxRepo.IncrementAttempts(ctx, msg.ID); errInc != nil {
			p.logger.Error("Failed to increment attempts for outbox message", "outbox_id", msg.ID, "error", errInc)
			return
		}

		if msg.Attempts+1 >= p.maxRetryAttempts {
			p.logger.Warn("Max retry attempts reached for outbox message, marking as FAILED_TO_PUBLISH",
				"outbox_id", msg.ID, "transaction_id", msg.TransactionID, "attempts_made", msg.Attempts+1,
			)
			if errUpdate := p.outboxRepo.UpdateStatus(ctx, msg.ID, outbox.StatusFailedToPublish); errUpdate != nil {
				p.logger.Error("Failed to mark outbox message as FAILED_TO_PUBLISH", "outbox_id", msg.ID, "error", errUpdate)
			}
		}
		return
	}

	if err := p.outboxRepo.Delete(ctx, msg.ID); err != nil {
		p.logger.Error("Failed to delete published outbox message", "outbox_id", msg.ID, "error", err)
		return
	}

	p.logger.Info("Published outbox message", "outbox_id", msg.ID, "transaction_id", msg.TransactionID)
}
