package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/amirasaad/ledger/pkg/domain/events"
	"github.com/amirasaad/ledger/pkg/eventbus"
)

// ErrBusFull is returned by MemoryAsyncEventBus.Emit when the queue is full.
var ErrBusFull = errors.New("event bus: queue full")

// ErrBusClosed is returned when emitting on a closed bus.
var ErrBusClosed = errors.New("event bus: closed")

// MemoryEventBus is a synchronous in-memory bus. Handlers run on the
// emitting goroutine; it is meant for tests.
type MemoryEventBus struct {
	handlers  map[string][]eventbus.HandlerFunc
	mu        sync.RWMutex
	logger    *slog.Logger
	published []events.Event
}

// NewWithMemory creates a synchronous in-memory bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers:  make(map[string][]eventbus.HandlerFunc),
		logger:    logger.With("bus", "memory"),
		published: make([]events.Event, 0),
	}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit dispatches the event to all registered handlers for its type. Handler
// errors are logged, not returned.
func (b *MemoryEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	handlers := append([]eventbus.HandlerFunc(nil), b.handlers[event.Type()]...)
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("failed to process event", "type", event.Type(), "error", err)
		}
	}
	return nil
}

// Published returns the events emitted so far.
func (b *MemoryEventBus) Published() []events.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]events.Event(nil), b.published...)
}

// ClearPublished forgets the recorded events.
func (b *MemoryEventBus) ClearPublished() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = make([]events.Event, 0)
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)

type envelopeMsg struct {
	ctx   context.Context
	event events.Event
}

// MemoryAsyncEventBus delivers events on a fixed pool of worker goroutines
// fed by a bounded queue. Emit never blocks: when the queue is full the event
// is dropped and ErrBusFull returned.
type MemoryAsyncEventBus struct {
	handlers map[string][]eventbus.HandlerFunc
	mu       sync.RWMutex
	eventCh  chan envelopeMsg
	closed   bool
	wg       sync.WaitGroup
	log      *slog.Logger
}

// NewWithMemoryAsync starts workers goroutines reading from a queue of size buffer.
func NewWithMemoryAsync(logger *slog.Logger, workers, buffer int) *MemoryAsyncEventBus {
	if workers <= 0 {
		workers = 1
	}
	if buffer < 0 {
		buffer = 0
	}
	b := &MemoryAsyncEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		eventCh:  make(chan envelopeMsg, buffer),
		log:      logger.With("bus", "memory-async"),
	}
	b.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go b.process()
	}
	return b
}

func (b *MemoryAsyncEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.mu.Unlock()
}

func (b *MemoryAsyncEventBus) Emit(ctx context.Context, event events.Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBusClosed
	}
	// Delivery outlives the request that triggered it.
	msg := envelopeMsg{ctx: context.WithoutCancel(ctx), event: event}
	select {
	case b.eventCh <- msg:
		return nil
	default:
		b.log.Warn("dropping event, queue full", "type", event.Type())
		return ErrBusFull
	}
}

// Close stops accepting events and waits for queued ones to be handled.
func (b *MemoryAsyncEventBus) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.eventCh)
	b.mu.Unlock()
	b.wg.Wait()
	return nil
}

func (b *MemoryAsyncEventBus) process() {
	defer b.wg.Done()
	for w := range b.eventCh {
		b.mu.RLock()
		handlers := append([]eventbus.HandlerFunc(nil), b.handlers[w.event.Type()]...)
		b.mu.RUnlock()
		for _, handler := range handlers {
			b.dispatch(w, handler)
		}
	}
}

func (b *MemoryAsyncEventBus) dispatch(w envelopeMsg, handler eventbus.HandlerFunc) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("panic recovered in event handler", "type", w.event.Type(), "panic", r)
		}
	}()
	if err := handler(w.ctx, w.event); err != nil {
		b.log.Error("failed to process event", "type", w.event.Type(), "error", err)
	}
}

var _ eventbus.Bus = (*MemoryAsyncEventBus)(nil)
