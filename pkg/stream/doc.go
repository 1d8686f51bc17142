// Package stream provides the minimal push-based stream primitive the
// corestate engine is built on, together with the combinators the engine
// needs: dynamic N-way merge, timed debounce, consecutive-duplicate
// removal, and drop-first.
//
// # Core Types
//
// Stream[T] is anything that can be subscribed to:
//
//	cancel := s.Subscribe(func(v int) { fmt.Println(v) })
//	defer cancel()
//
// Source[T] is a concrete publisher:
//
//	src := stream.NewSource[int]()
//	cancel := src.Subscribe(handler)
//	src.Publish(42)
//
// Combinators wrap a Stream and return a derived Stream. Derived streams
// are lazy: nothing upstream is subscribed until the derived stream itself
// is subscribed, and combinator state (debounce timers, last-seen values)
// is per-subscription.
//
// # Thread Safety
//
// Publish may be called from any goroutine. Subscribers are invoked
// synchronously on the publishing goroutine; a subscriber that needs a
// particular execution context must hop to it itself (the store's mailbox
// is one such hop).
package stream
