package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
	"github.com/iho/yieldledger/internal/usecase"
)

// Worker drains the outbox. Packet-sent events are delivered to the named
// peer ledger through the Messenger; every other event type goes to the
// Publisher. Delivery happens strictly after the producing transaction
// committed, so a burned packet is never lost even if the process dies
// between commit and delivery.
type Worker struct {
	outboxRepo   usecase.OutboxRepository
	messenger    usecase.Messenger
	publisher    Publisher
	retrier      Retryer
	logger       *slog.Logger
	batchSize    int
	interval     time.Duration
	retainPeriod time.Duration
}

// Publisher receives non-packet outbox events.
type Publisher interface {
	Publish(ctx context.Context, event *domain.OutboxEvent) error
}

// Retryer retries transient storage failures when marking events published.
type Retryer interface {
	Retry(ctx context.Context, operation func() error) error
}

type noRetry struct{}

func (noRetry) Retry(ctx context.Context, operation func() error) error { return operation() }

// Config for Worker.
type Config struct {
	OutboxRepo usecase.OutboxRepository
	Messenger  usecase.Messenger
	Publisher  Publisher
	Retrier    Retryer
	Logger     *slog.Logger
	BatchSize  int           // Number of events to fetch per batch
	Interval   time.Duration // Polling interval
	// RetainPeriod controls how long published events are kept before
	// cleanup. Zero disables cleanup.
	RetainPeriod time.Duration
}

// NewWorker creates a new relay Worker.
func NewWorker(cfg Config) *Worker {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval == 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Retrier == nil {
		cfg.Retrier = noRetry{}
	}
	if cfg.Publisher == nil {
		cfg.Publisher = NewLogPublisher(cfg.Logger)
	}

	return &Worker{
		outboxRepo:   cfg.OutboxRepo,
		messenger:    cfg.Messenger,
		publisher:    cfg.Publisher,
		retrier:      cfg.Retrier,
		logger:       cfg.Logger,
		batchSize:    cfg.BatchSize,
		interval:     cfg.Interval,
		retainPeriod: cfg.RetainPeriod,
	}
}

// Start begins the relay loop. It runs until the context is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("relay worker started",
		slog.Int("batch_size", w.batchSize),
		slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Drain immediately on start
	if err := w.processEvents(ctx); err != nil {
		w.logger.Error("error processing events on start", slog.String("error", err.Error()))
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("relay worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := w.processEvents(ctx); err != nil {
				w.logger.Error("error processing events", slog.String("error", err.Error()))
			}
			w.cleanup(ctx)
		}
	}
}

// processEvents fetches and dispatches a batch of unpublished events.
func (w *Worker) processEvents(ctx context.Context) error {
	events, err := w.outboxRepo.GetUnpublished(ctx, w.batchSize)
	if err != nil {
		return err
	}

	if len(events) == 0 {
		return nil
	}

	w.logger.Info("processing events", slog.Int("count", len(events)))

	for _, event := range events {
		if err := w.dispatch(ctx, event); err != nil {
			w.logger.Error("failed to dispatch event",
				slog.String("event_id", event.ID),
				slog.String("event_type", event.EventType),
				slog.String("error", err.Error()))
			// Continue with the rest of the batch; this event stays
			// unpublished and is retried next tick.
			continue
		}

		err := w.retrier.Retry(ctx, func() error {
			return w.outboxRepo.MarkPublished(ctx, event.ID, time.Now())
		})
		if err != nil {
			w.logger.Error("failed to mark event as published",
				slog.String("event_id", event.ID),
				slog.String("error", err.Error()))
		}
	}

	return nil
}

// dispatch routes one event. Packet-sent events go to the peer named in the
// payload; everything else goes to the publisher.
func (w *Worker) dispatch(ctx context.Context, event *domain.OutboxEvent) error {
	if event.EventType != domain.EventTypePacketSent {
		return w.publisher.Publish(ctx, event)
	}

	peerID, packet, err := packetFromPayload(event.Payload)
	if err != nil {
		// A malformed payload never becomes deliverable; surface it and
		// mark the event done so it stops blocking the batch.
		w.logger.Error("dropping undeliverable packet event",
			slog.String("event_id", event.ID),
			slog.String("error", err.Error()))
		return nil
	}

	w.logger.Debug("delivering packet",
		slog.String("packet_id", packet.ID),
		slog.String("peer_id", peerID))

	if err := w.messenger.Deliver(ctx, peerID, packet); err != nil {
		return err
	}

	w.logger.Info("packet delivered",
		slog.String("packet_id", packet.ID),
		slog.String("peer_id", peerID))

	return nil
}

func (w *Worker) cleanup(ctx context.Context) {
	if w.retainPeriod <= 0 {
		return
	}

	cutoff := time.Now().Add(-w.retainPeriod)
	err := w.retrier.Retry(ctx, func() error {
		return w.outboxRepo.DeletePublished(ctx, cutoff)
	})
	if err != nil {
		w.logger.Error("failed to delete published events", slog.String("error", err.Error()))
	}
}

// packetFromPayload reconstructs the packet and routing from an outbox
// payload written by the source burn.
func packetFromPayload(payload map[string]any) (string, *domain.Packet, error) {
	peerID, _ := payload["peer_id"].(string)
	if peerID == "" {
		return "", nil, fmt.Errorf("packet payload missing peer_id")
	}

	packetID, _ := payload["packet_id"].(string)
	dest, _ := payload["destination_account"].(string)
	amountStr, _ := payload["amount"].(string)
	rateStr, _ := payload["source_locked_rate"].(string)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return "", nil, fmt.Errorf("packet payload amount: %w", err)
	}

	rate, err := decimal.NewFromString(rateStr)
	if err != nil {
		return "", nil, fmt.Errorf("packet payload source_locked_rate: %w", err)
	}

	packet := &domain.Packet{
		ID:                 packetID,
		Amount:             amount,
		SourceLockedRate:   rate,
		DestinationAccount: dest,
	}

	if packetID == "" {
		return "", nil, fmt.Errorf("packet payload missing packet_id")
	}

	if err := packet.Validate(); err != nil {
		return "", nil, err
	}

	return peerID, packet, nil
}

// LogPublisher logs events instead of shipping them anywhere. It backs the
// non-packet event types in deployments without an external consumer.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	p.logger.Info("EVENT PUBLISHED",
		slog.String("event_id", event.ID),
		slog.String("event_type", event.EventType),
		slog.String("aggregate_type", event.AggregateType),
		slog.String("aggregate_id", event.AggregateID),
		slog.String("payload", string(payload)))

	return nil
}
