package store

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/corestate/corestate/pkg/stream"
)

// Effect is a lazy, possibly infinite, possibly asynchronous producer of
// zero or more Actions. Nothing executes until the effect is registered
// with a store; once registered, the store owns the subscription lifetime
// and every emitted action lands on the store's serialization loop.
//
// An Effect value is single-use: once registered it is spent, and running
// the same work again requires constructing a fresh Effect. The zero
// Effect is "no effect" and is the valid empty return from Reducer.Mutate.
//
// An effect takes one of two shapes. Run-based effects (NewEffect,
// EffectOf) execute on their own goroutine. Subscription-based effects
// (FromStream, Debounced) attach to an upstream stream synchronously at
// registration and live until the store is torn down; they never
// complete on their own.
type Effect[M, E any] struct {
	run       func(ctx context.Context, emit func(Action[M, E]))
	subscribe func(emit func(Action[M, E])) (cancel func())

	// started guards against re-registration of a spent effect.
	started *atomic.Bool
}

// NewEffect wraps run into an Effect. run is invoked on its own goroutine
// when the effect is registered; it should emit actions via emit and
// return when done. Long-lived effects block until ctx is cancelled,
// which happens when the owning store is closed.
func NewEffect[M, E any](run func(ctx context.Context, emit func(Action[M, E]))) Effect[M, E] {
	return Effect[M, E]{
		run:     run,
		started: new(atomic.Bool),
	}
}

// Empty reports whether e is the zero "no effect" value.
func (e Effect[M, E]) Empty() bool {
	return e.run == nil && e.subscribe == nil
}

// EffectOf returns a finite effect that emits the given actions in order
// and then completes.
func EffectOf[M, E any](actions ...Action[M, E]) Effect[M, E] {
	return NewEffect(func(ctx context.Context, emit func(Action[M, E])) {
		for _, a := range actions {
			select {
			case <-ctx.Done():
				return
			default:
			}
			emit(a)
		}
	})
}

// newWatcher wraps a subscribe function into a subscription-based effect.
func newWatcher[M, E any](subscribe func(emit func(Action[M, E])) func()) Effect[M, E] {
	return Effect[M, E]{
		subscribe: subscribe,
		started:   new(atomic.Bool),
	}
}

// FromStream returns a long-lived effect that forwards every value of s
// as an action until the owning store is torn down. The upstream is
// subscribed the moment the effect is registered.
func FromStream[M, E any](s stream.Stream[Action[M, E]]) Effect[M, E] {
	return newWatcher(func(emit func(Action[M, E])) func() {
		return s.Subscribe(emit)
	})
}

// Debounced returns a long-lived effect that watches src and, once quiet
// has elapsed with no further emission, produces action. Every elapsed
// quiet period produces the action exactly once. This is the standard way
// to trigger work only after a value stops changing, such as firing a
// validation pass once the user stops typing while every keystroke still
// lands immediately through a plain mutating action.
func Debounced[M, E, V any](src stream.Stream[V], quiet time.Duration, action Action[M, E]) Effect[M, E] {
	return newWatcher(func(emit func(Action[M, E])) func() {
		return stream.Debounce(src, quiet).Subscribe(func(V) {
			emit(action)
		})
	})
}
