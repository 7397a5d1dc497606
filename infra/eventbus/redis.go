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
	"github.com/redis/go-redis/v9"
)

// RedisEventBusConfig holds configuration for the Redis Streams bus.
type RedisEventBusConfig struct {
	Stream   string
	Group    string
	Block    time.Duration
	Consumer string
}

// DefaultRedisEventBusConfig returns default configuration for RedisEventBus.
func DefaultRedisEventBusConfig() *RedisEventBusConfig {
	return &RedisEventBusConfig{
		Stream: "ledger.events",
		Group:  "ledger",
		Block:  5 * time.Second,
	}
}

// RedisEventBus implements the bus on top of a Redis stream and a consumer
// group. One consumer loop per bus dispatches messages by event type; events
// whose handlers fail are copied to "<stream>-DLQ".
type RedisEventBus struct {
	client *redis.Client
	config *RedisEventBusConfig
	logger *slog.Logger

	handlers map[string][]eventbus.HandlerFunc
	mu       sync.RWMutex
	start    sync.Once

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis creates a new Redis-backed event bus.
// url: Redis connection URL (e.g., "redis://localhost:6379/0")
func NewWithRedis(url string, logger *slog.Logger, config *RedisEventBusConfig) (*RedisEventBus, error) {
	if url == "" {
		return nil, fmt.Errorf("redis event bus: url is required")
	}
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}
	return NewWithRedisClient(redis.NewClient(opt), logger, config)
}

// NewWithRedisClient wraps an existing client.
func NewWithRedisClient(client *redis.Client, logger *slog.Logger, config *RedisEventBusConfig) (*RedisEventBus, error) {
	if config == nil {
		config = DefaultRedisEventBusConfig()
	}
	if config.Block <= 0 {
		config.Block = 5 * time.Second
	}
	if config.Consumer == "" {
		config.Consumer = fmt.Sprintf("consumer-%d", time.Now().UnixNano())
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := client.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}
	// BUSYGROUP just means the group already exists.
	if err := client.XGroupCreateMkStream(ctx, config.Stream, config.Group, "0").Err(); err != nil &&
		!strings.HasPrefix(err.Error(), "BUSYGROUP") {
		cancel()
		return nil, fmt.Errorf("redis event bus: create group: %w", err)
	}

	return &RedisEventBus{
		client:   client,
		config:   config,
		logger:   logger.With("bus", "redis", "stream", config.Stream),
		handlers: make(map[string][]eventbus.HandlerFunc),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Emit publishes an event to the Redis stream.
func (b *RedisEventBus) Emit(ctx context.Context, event events.Event) error {
	data, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}
	if err := b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: b.config.Stream,
		Values: map[string]any{"event": string(data)},
	}).Err(); err != nil {
		b.logger.Error("failed to emit event", "error", err, "type", event.Type())
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	b.logger.Debug("event emitted", "type", event.Type())
	return nil
}

// Register adds a handler and makes sure the consumer loop is running.
func (b *RedisEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()

	b.start.Do(func() {
		b.wg.Add(1)
		go b.consume()
	})
	b.logger.Info("handler registered", "event_type", eventType, "consumer", b.config.Consumer)
}

// Close stops the consumer loop and closes the client.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

func (b *RedisEventBus) consume() {
	defer b.wg.Done()
	for {
		if b.ctx.Err() != nil {
			return
		}
		res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
			Group:    b.config.Group,
			Consumer: b.config.Consumer,
			Streams:  []string{b.config.Stream, ">"},
			Count:    10,
			Block:    b.config.Block,
		}).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) || b.ctx.Err() != nil {
				continue
			}
			b.logger.Error("error reading from stream", "error", err)
			select {
			case <-b.ctx.Done():
			case <-time.After(time.Second):
			}
			continue
		}
		for _, stream := range res {
			for _, msg := range stream.Messages {
				b.handle(msg)
			}
		}
	}
}

func (b *RedisEventBus) handle(msg redis.XMessage) {
	defer func() {
		if err := b.client.XAck(b.ctx, b.config.Stream, b.config.Group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
		}
	}()

	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.pushToDLQ(msg.Values)
		return
	}
	evt, err := decodeEnvelope([]byte(raw))
	if err != nil {
		b.logger.Error("failed to decode event", "error", err, "msg_id", msg.ID)
		b.pushToDLQ(msg.Values)
		return
	}

	b.mu.RLock()
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[evt.Type()]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("handler panic recovered", "panic", r, "event_type", evt.Type())
					b.pushToDLQ(msg.Values)
				}
			}()
			if err := handler(b.ctx, evt); err != nil {
				b.logger.Error("handler error", "error", err, "event_type", evt.Type())
				b.pushToDLQ(msg.Values)
			}
		}()
	}
}

// pushToDLQ copies the raw message to the dead letter stream for inspection.
func (b *RedisEventBus) pushToDLQ(values map[string]any) {
	dlqStream := b.config.Stream + "-DLQ"
	if err := b.client.XAdd(b.ctx, &redis.XAddArgs{Stream: dlqStream, Values: values}).Err(); err != nil {
		b.logger.Error("failed to push to DLQ", "error", err, "stream", dlqStream)
		return
	}
	b.logger.Warn("event pushed to DLQ", "stream", dlqStream)
}

var _ eventbus.Bus = (*RedisEventBus)(nil)
