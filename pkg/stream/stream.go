package stream

import (
	"sync"
	"sync/atomic"
)

// Stream is an event stream that supports subscription.
// Subscribe returns a cancel function that detaches the handler; after
// cancel returns, the handler will not be invoked again.
type Stream[T any] interface {
	Subscribe(fn func(T)) (cancel func())
}

// Func adapts a subscribe function into a Stream.
type Func[T any] func(fn func(T)) (cancel func())

// Subscribe implements the Stream interface.
func (f Func[T]) Subscribe(fn func(T)) func() {
	return f(fn)
}

// nextSubID generates unique subscription identifiers.
var nextSubID atomic.Uint64

// subscriber pairs a handler with its identity for removal.
type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Source is a push-based publisher. The zero value is not usable; create
// with NewSource.
type Source[T any] struct {
	mu     sync.RWMutex
	subs   []subscriber[T]
	closed bool
}

// NewSource creates an empty Source.
func NewSource[T any]() *Source[T] {
	return &Source[T]{}
}

// Subscribe adds a handler. The handler is invoked synchronously on the
// goroutine that calls Publish, in Publish order.
func (s *Source[T]) Subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}
	id := nextSubID.Add(1)
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	s.mu.Unlock()

	return func() { s.unsubscribe(id) }
}

func (s *Source[T]) unsubscribe(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// Publish delivers v to every current subscriber.
// Uses copy-before-notify to avoid holding the lock during handlers.
func (s *Source[T]) Publish(v T) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return
	}
	subs := make([]subscriber[T], len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.fn(v)
	}
}

// Close drops all subscribers. Publish and Subscribe after Close are no-ops.
func (s *Source[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.subs = nil
}

// Len returns the current subscriber count.
func (s *Source[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Of returns a finite stream that emits the given values synchronously on
// Subscribe and then completes.
func Of[T any](values ...T) Stream[T] {
	return Func[T](func(fn func(T)) func() {
		for _, v := range values {
			fn(v)
		}
		return func() {}
	})
}

// Map returns a stream that transforms every upstream value through f.
func Map[T, U any](s Stream[T], f func(T) U) Stream[U] {
	return Func[U](func(fn func(U)) func() {
		return s.Subscribe(func(v T) {
			fn(f(v))
		})
	})
}
