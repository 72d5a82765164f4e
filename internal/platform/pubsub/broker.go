// Package pubsub fans whole-value change messages out to in-process subscribers.
package pubsub

import (
	"log/slog"
	"sync"
)

// Broker delivers every published value to all current subscribers.
// Values are whole replacements; the broker never merges or diffs them.
type Broker[T any] struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(T)
	logger *slog.Logger
}

// NewBroker creates an empty broker. topic is only used for logging.
func NewBroker[T any](topic string, logger *slog.Logger) *Broker[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Broker[T]{
		subs:   make(map[int]func(T)),
		logger: logger.With(slog.String("topic", topic)),
	}
}

// Subscribe registers fn and returns a function that removes it again.
func (b *Broker[T]) Subscribe(fn func(T)) func() {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every subscriber synchronously. A panicking subscriber is logged
// and does not prevent delivery to the others.
func (b *Broker[T]) Publish(value T) {
	b.mu.RLock()
	handlers := make([]func(T), 0, len(b.subs))
	for _, fn := range b.subs {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		b.deliver(fn, value)
	}
}

func (b *Broker[T]) deliver(fn func(T), value T) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Subscriber panicked while handling message", slog.Any("panic", r))
		}
	}()
	fn(value)
}

// Len returns the number of live subscriptions.
func (b *Broker[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
