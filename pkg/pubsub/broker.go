// Package pubsub fans events out to independent subscribers, such as the
// clients of a streaming endpoint.
package pubsub

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the per-subscriber queue length
const DefaultBuffer = 64

// ErrClosed is returned when subscribing to a closed broker
var ErrClosed = errors.New("broker is closed")

// Broker delivers each published event to every current subscriber.
// Publish never blocks: a subscriber whose queue is full misses the event
// and its drop counter is incremented.
type Broker[T any] struct {
	mu     sync.RWMutex
	subs   map[*Subscription[T]]struct{}
	buffer int
	closed bool
}

// Subscription receives events until it is cancelled or the broker closes
type Subscription[T any] struct {
	events    chan T
	broker    *Broker[T]
	cancel    context.CancelFunc
	dropped   atomic.Uint64
	closeOnce sync.Once
}

// NewBroker creates a broker. A non-positive buffer uses DefaultBuffer.
func NewBroker[T any](buffer int) *Broker[T] {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broker[T]{
		subs:   make(map[*Subscription[T]]struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a subscriber. It is removed when ctx is done or
// Unsubscribe is called.
func (b *Broker[T]) Subscribe(ctx context.Context) (*Subscription[T], error) {
	subCtx, cancel := context.WithCancel(ctx)
	sub := &Subscription[T]{
		events: make(chan T, b.buffer),
		broker: b,
		cancel: cancel,
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		cancel()
		return nil, ErrClosed
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-subCtx.Done()
		sub.Unsubscribe()
	}()

	return sub, nil
}

// Publish sends ev to every subscriber and returns how many received it
func (b *Broker[T]) Publish(ev T) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return 0
	}

	delivered := 0
	for sub := range b.subs {
		select {
		case sub.events <- ev:
			delivered++
		default:
			sub.dropped.Add(1)
		}
	}
	return delivered
}

// Subscribers returns the number of active subscriptions
func (b *Broker[T]) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription. Later publishes are ignored and later
// subscribes fail with ErrClosed.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := b.subs
	b.subs = make(map[*Subscription[T]]struct{})
	b.mu.Unlock()

	for sub := range subs {
		sub.cancel()
		sub.close()
	}
}

// Events returns the event channel. It is closed when the subscription ends.
func (s *Subscription[T]) Events() <-chan T {
	return s.events
}

// Dropped returns how many events were missed because the queue was full
func (s *Subscription[T]) Dropped() uint64 {
	return s.dropped.Load()
}

// Unsubscribe removes the subscription and closes its channel
func (s *Subscription[T]) Unsubscribe() {
	s.cancel()

	b := s.broker
	b.mu.Lock()
	delete(b.subs, s)
	// Close under the lock so no Publish is mid-send
	s.close()
	b.mu.Unlock()
}

func (s *Subscription[T]) close() {
	s.closeOnce.Do(func() {
		close(s.events)
	})
}
