// Package eventbus is a typed in-process publish/subscribe bus.
package eventbus

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/dhima/recipe-list-platform/internal/logging"
	"go.uber.org/zap"
)

// ErrClosed is returned by Post after Close.
var ErrClosed = errors.New("event bus closed")

// DefaultBuffer is the per-subscriber channel capacity used when New is
// given a non-positive size.
const DefaultBuffer = 64

// Bus fans every posted event out to all current subscribers. Delivery never
// blocks the poster: a subscriber whose buffer is full misses the event and
// the drop is counted.
type Bus[T any] struct {
	name   string
	buffer int
	logger logging.Logger

	mu     sync.RWMutex
	subs   map[uint64]chan T
	nextID uint64
	closed bool

	dropped atomic.Uint64
}

// New creates a bus. name only labels log entries.
func New[T any](name string, buffer int, logger logging.Logger) *Bus[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Bus[T]{
		name:   name,
		buffer: buffer,
		logger: logger.With(zap.String("bus", name)),
		subs:   make(map[uint64]chan T),
	}
}

// Subscribe registers a new subscriber. The returned function unsubscribes
// and closes the channel; it is safe to call more than once. Subscribing to
// a closed bus yields an already closed channel.
func (b *Bus[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, b.buffer)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.unsubscribe(id) })
	}
}

func (b *Bus[T]) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Post delivers event to every subscriber without blocking.
func (b *Bus[T]) Post(ctx context.Context, event T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber buffer full, event dropped", zap.Uint64("subscriber", id))
		}
	}
	return nil
}

// Subscribers returns the number of active subscriptions.
func (b *Bus[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many deliveries were skipped because of full buffers.
func (b *Bus[T]) Dropped() uint64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. Later posts fail with ErrClosed.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
