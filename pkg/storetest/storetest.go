// Package storetest provides helpers for testing stores and streams:
// a stream recorder, a polling assertion, and flush-then-read shorthand.
package storetest

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/corestate/corestate/pkg/store"
	"github.com/corestate/corestate/pkg/stream"
)

// Collector subscribes to a stream and records every emission.
//
// Example:
//
//	c := storetest.Collect(store.Updates(st, sel))
//	defer c.Stop()
//	st.Send(...)
//	got := c.Await(t, 1, time.Second)
type Collector[T any] struct {
	mu     sync.Mutex
	values []T
	cancel func()
}

// Collect subscribes to s and starts recording.
func Collect[T any](s stream.Stream[T]) *Collector[T] {
	c := &Collector[T]{}
	c.cancel = s.Subscribe(func(v T) {
		c.mu.Lock()
		c.values = append(c.values, v)
		c.mu.Unlock()
	})
	return c
}

// Stop unsubscribes the collector.
func (c *Collector[T]) Stop() {
	c.cancel()
}

// Values returns a copy of everything recorded so far.
func (c *Collector[T]) Values() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.values))
	copy(out, c.values)
	return out
}

// Len returns the number of recorded values.
func (c *Collector[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

// Await blocks until at least n values have been recorded or the deadline
// passes, then returns a copy of the recorded values. Fails the test on
// timeout.
func (c *Collector[T]) Await(t *testing.T, n int, within time.Duration) []T {
	t.Helper()
	deadline := time.Now().Add(within)
	for c.Len() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d emissions, got %d: %v", n, c.Len(), c.Values())
		}
		time.Sleep(2 * time.Millisecond)
	}
	return c.Values()
}

// Eventually polls cond until it reports true or the deadline passes.
// Fails the test on timeout with the given message.
func Eventually(t *testing.T, within time.Duration, cond func() bool, format string, args ...any) {
	t.Helper()
	deadline := time.Now().Add(within)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met within " + within.String() + ": " + fmt.Sprintf(format, args...))
		}
		time.Sleep(2 * time.Millisecond)
	}
}

// FlushState flushes st's mailbox and returns the resulting state
// snapshot. Fails the test if the store is closed.
func FlushState[S, M, E any](t *testing.T, st *store.Store[S, M, E]) S {
	t.Helper()
	if err := st.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	return st.State()
}

// SendAndFlush sends every action in order, flushes, and returns the
// resulting state snapshot.
func SendAndFlush[S, M, E any](t *testing.T, st *store.Store[S, M, E], actions ...store.Action[M, E]) S {
	t.Helper()
	for _, a := range actions {
		st.Send(a)
	}
	return FlushState(t, st)
}
