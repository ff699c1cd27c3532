// Command kafka_smoketest publishes a TransactionCreated event through the
// Kafka event bus and waits for the bus to deliver it back.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	infra_eventbus "github.com/amirasaad/findash/infra/eventbus"
	"github.com/amirasaad/findash/pkg/config"
	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// RunSmokeTest round-trips one event on the configured topic.
func RunSmokeTest(logger *slog.Logger) error {
	brokers := config.GetEnv("KAFKA_BROKERS", "localhost:9092")
	topic := config.GetEnv("KAFKA_TOPIC", "findash.events")

	ctx, cancel := context.WithTimeout(context.Background(), config.GetEnvAsDuration("SMOKETEST_TIMEOUT", 30*time.Second))
	defer cancel()

	partitions := config.GetEnvAsInt("KAFKA_PARTITIONS", 1)
	if err := ensureTopic(ctx, strings.Split(brokers, ",")[0], topic, partitions); err != nil {
		logger.Error("create topic failed", "topic", topic, "error", err)
		return err
	}
	logger.Info("topic ready", "topic", topic)

	// A fresh group reads from the first offset, so older events are skipped
	// by ID rather than by position.
	bus, err := infra_eventbus.NewWithKafka(infra_eventbus.KafkaConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: "findash-smoketest-" + uuid.NewString(),
	}, logger)
	if err != nil {
		return err
	}
	defer func() { _ = bus.Close() }()

	sent := events.NewTransactionCreated(0, 0, "income", "")
	received := make(chan struct{})
	var once sync.Once
	bus.Register(events.EventTypeTransactionCreated, func(_ context.Context, e events.Event) error {
		if e.ID() == sent.ID() {
			once.Do(func() { close(received) })
		}
		return nil
	})

	if err := bus.Emit(ctx, sent); err != nil {
		logger.Error("emit failed", "error", err)
		return err
	}
	logger.Info("produced", "event_id", sent.ID())

	select {
	case <-received:
		logger.Info("kafka smoke test passed", "event_id", sent.ID())
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event %s not consumed: %w", sent.ID(), ctx.Err())
	}
}

func ensureTopic(ctx context.Context, broker, topic string, partitions int) error {
	dialer := &kafka.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", broker)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()
	err = conn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	})
	if err != nil && !strings.Contains(strings.ToLower(err.Error()), "already exists") {
		return err
	}
	return nil
}

// main runs the smoke test and exits non-zero on failure.
func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	if err := RunSmokeTest(logger); err != nil {
		logger.Error("kafka smoke test failed", "error", err)
		os.Exit(1)
	}
}
