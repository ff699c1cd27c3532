package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/findash/pkg/domain/events"
	"github.com/amirasaad/findash/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// decoders rebuilds events read back from Kafka.
var decoders = map[string]func() events.Event{
	events.EventTypeUserCreated:        func() events.Event { return &events.UserCreated{} },
	events.EventTypeTransactionCreated: func() events.Event { return &events.TransactionCreated{} },
}

type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaConfig configures the Kafka event bus.
type KafkaConfig struct {
	Brokers string
	Topic   string
	GroupID string
}

// KafkaEventBus publishes every event to a single topic and dispatches the
// events it consumes back to the registered handlers.
type KafkaEventBus struct {
	writer    messageWriter
	newReader func() messageReader
	topic     string

	handlers    map[string][]eventbus.HandlerFunc
	handlersMtx sync.RWMutex

	startOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	reader    messageReader

	logger *slog.Logger
}

// NewWithKafka creates a Kafka-backed event bus.
// brokers: comma-separated broker list (e.g. "localhost:9092,localhost:9093").
func NewWithKafka(cfg KafkaConfig, logger *slog.Logger) (*KafkaEventBus, error) {
	brokers := parseBrokers(cfg.Brokers)
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if strings.TrimSpace(cfg.Topic) == "" {
		cfg.Topic = "findash.events"
	}
	if cfg.GroupID == "" {
		cfg.GroupID = "findash"
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  cfg.Topic,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}
	newReader := func() messageReader {
		return kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			GroupID:  cfg.GroupID,
			Topic:    cfg.Topic,
			MinBytes: 1,
			MaxBytes: 10e6,
			MaxWait:  time.Second,
		})
	}
	bus := newKafkaEventBus(writer, newReader, cfg.Topic, logger)
	bus.logger.Info("🚀 Kafka event bus initialized", "brokers", brokers, "topic", cfg.Topic, "group_id", cfg.GroupID)
	return bus, nil
}

func newKafkaEventBus(writer messageWriter, newReader func() messageReader, topic string, logger *slog.Logger) *KafkaEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaEventBus{
		writer:    writer,
		newReader: newReader,
		topic:     topic,
		handlers:  make(map[string][]eventbus.HandlerFunc),
		ctx:       ctx,
		cancel:    cancel,
		logger:    logger.With("bus", "kafka"),
	}
}

// Register registers a handler and starts the consumer on first use.
func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.handlersMtx.Unlock()

	b.startOnce.Do(func() {
		b.reader = b.newReader()
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			b.consumeLoop(b.ctx)
		}()
	})
}

// Emit publishes an event keyed by its ID.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: marshal payload: %w", err)
	}
	value, err := json.Marshal(envelope{Type: event.Type(), Payload: payload})
	if err != nil {
		return fmt.Errorf("kafka event bus: marshal envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.ID().String()),
		Value: value,
		Time:  event.OccurredAt(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: publish failed: %w", err)
	}
	return nil
}

// Close stops the consumer and closes network resources.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	if b.reader != nil {
		_ = b.reader.Close()
	}
	b.wg.Wait()
	return b.writer.Close()
}

func (b *KafkaEventBus) consumeLoop(ctx context.Context) {
	for {
		msg, err := b.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			b.logger.Error("kafka consume error", "error", err, "topic", b.topic)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		b.process(ctx, msg)
		if err := b.reader.CommitMessages(ctx, msg); err != nil {
			b.logger.Error("kafka commit error", "error", err, "partition", msg.Partition, "offset", msg.Offset)
		}
	}
}

// process decodes one message and runs its handlers. Undecodable messages
// are logged and skipped so they do not block the partition.
func (b *KafkaEventBus) process(ctx context.Context, msg kafka.Message) {
	var env envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		b.logger.Error("failed to unmarshal envelope", "error", err, "offset", msg.Offset)
		return
	}
	decode, ok := decoders[env.Type]
	if !ok {
		b.logger.Warn("unknown event type", "type", env.Type, "offset", msg.Offset)
		return
	}
	evt := decode()
	if err := json.Unmarshal(env.Payload, evt); err != nil {
		b.logger.Error("failed to unmarshal event payload", "error", err, "event_type", env.Type)
		return
	}

	b.handlersMtx.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[env.Type]...)
	b.handlersMtx.RUnlock()
	dispatch(ctx, b.logger, evt, handlers)
}

func parseBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

var _ eventbus.Bus = (*KafkaEventBus)(nil)
