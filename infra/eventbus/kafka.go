package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// KafkaEventBusConfig holds configuration for the Kafka event bus.
type KafkaEventBusConfig struct {
	GroupID     string
	TopicPrefix string
	DialTimeout time.Duration
}

// DefaultKafkaEventBusConfig returns default configuration for KafkaEventBus.
func DefaultKafkaEventBusConfig() *KafkaEventBusConfig {
	return &KafkaEventBusConfig{
		GroupID:     "ledger",
		TopicPrefix: "ledger.events",
		DialTimeout: 10 * time.Second,
	}
}

// KafkaEventBus publishes each event type to its own topic
// ("<prefix>.<event type>") and runs one consumer-group reader per
// registered type. Failed messages go to "<topic>.dlq".
type KafkaEventBus struct {
	brokers []string
	writer  *kafka.Writer
	config  *KafkaEventBusConfig
	logger  *slog.Logger

	handlers    map[string][]eventbus.HandlerFunc
	handlersMtx sync.RWMutex
	readers     map[string]*kafka.Reader
	readersMtx  sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithKafka creates a new Kafka-backed event bus.
// brokers: Comma-separated brokers list (e.g. "localhost:9092,localhost:9093").
func NewWithKafka(brokers string, logger *slog.Logger, config *KafkaEventBusConfig) (*KafkaEventBus, error) {
	parsed := parseBrokers(brokers)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}
	if config == nil {
		config = DefaultKafkaEventBusConfig()
	}
	if config.GroupID == "" {
		config.GroupID = "ledger"
	}
	if strings.TrimSpace(config.TopicPrefix) == "" {
		config.TopicPrefix = "ledger.events"
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	bus := &KafkaEventBus{
		brokers: parsed,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(parsed...),
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
			Balancer:               &kafka.Hash{},
			// Emit runs on the request path; do not wait for a fuller batch.
			BatchTimeout:           10 * time.Millisecond,
		},
		config:   config,
		logger:   logger.With("bus", "kafka"),
		handlers: make(map[string][]eventbus.HandlerFunc),
		readers:  make(map[string]*kafka.Reader),
		ctx:      ctx,
		cancel:   cancel,
	}
	if err := bus.ping(ctx); err != nil {
		_ = bus.Close()
		return nil, err
	}
	bus.logger.Info("Kafka event bus initialized", "group_id", config.GroupID, "brokers", parsed)
	return bus, nil
}

// Emit publishes an event to its topic, keyed by event type.
func (b *KafkaEventBus) Emit(ctx context.Context, event events.Event) error {
	data, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}
	msg := kafka.Message{
		Topic: topicNameFor(b.config.TopicPrefix, event.Type()),
		Key:   []byte(event.Type()),
		Value: data,
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		b.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("kafka event bus: emit failed: %w", err)
	}
	return nil
}

// Register registers an event handler and starts a reader for its topic.
func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.handlersMtx.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.handlersMtx.Unlock()

	b.readersMtx.Lock()
	defer b.readersMtx.Unlock()
	if _, ok := b.readers[eventType]; ok {
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  b.brokers,
		GroupID:  b.config.GroupID,
		Topic:    topicNameFor(b.config.TopicPrefix, eventType),
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	b.readers[eventType] = reader
	b.wg.Add(1)
	go b.consumeLoop(eventType, reader)
}

// Close stops readers and flushes the writer.
func (b *KafkaEventBus) Close() error {
	b.cancel()
	b.readersMtx.Lock()
	for _, r := range b.readers {
		_ = r.Close()
	}
	b.readersMtx.Unlock()
	b.wg.Wait()
	return b.writer.Close()
}

func (b *KafkaEventBus) ping(ctx context.Context) error {
	dialCtx, cancel := context.WithTimeout(ctx, b.config.DialTimeout)
	defer cancel()
	conn, err := (&kafka.Dialer{Timeout: b.config.DialTimeout}).DialContext(dialCtx, "tcp", b.brokers[0])
	if err != nil {
		return fmt.Errorf("kafka event bus: dial %s: %w", b.brokers[0], err)
	}
	return conn.Close()
}

func (b *KafkaEventBus) consumeLoop(eventType string, reader *kafka.Reader) {
	defer b.wg.Done()
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || b.ctx.Err() != nil {
				return
			}
			b.logger.Error("failed to fetch message", "error", err, "event_type", eventType)
			continue
		}
		b.processMessage(eventType, msg)
		if err := reader.CommitMessages(b.ctx, msg); err != nil && b.ctx.Err() == nil {
			b.logger.Error("failed to commit message", "error", err, "event_type", eventType)
		}
	}
}

func (b *KafkaEventBus) processMessage(eventType string, msg kafka.Message) {
	evt, err := decodeEnvelope(msg.Value)
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "event_type", eventType)
		b.publishToDLQ(eventType, msg.Value)
		return
	}
	b.handlersMtx.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[eventType]...)
	b.handlersMtx.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("handler panic recovered", "panic", r, "event_type", eventType)
					b.publishToDLQ(eventType, msg.Value)
				}
			}()
			if err := handler(b.ctx, evt); err != nil {
				b.logger.Error("handler error", "error", err, "event_type", eventType)
				b.publishToDLQ(eventType, msg.Value)
			}
		}()
	}
}

func (b *KafkaEventBus) publishToDLQ(eventType string, raw []byte) {
	topic := dlqTopicNameFor(b.config.TopicPrefix, eventType)
	if err := b.writer.WriteMessages(b.ctx, kafka.Message{Topic: topic, Key: []byte(eventType), Value: raw}); err != nil {
		b.logger.Error("failed to publish to DLQ", "error", err, "topic", topic)
	}
}

func topicNameFor(prefix, eventType string) string {
	return prefix + "." + eventType
}

func dlqTopicNameFor(prefix, eventType string) string {
	return topicNameFor(prefix, eventType) + ".dlq"
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
