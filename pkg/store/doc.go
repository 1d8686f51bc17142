// Package store provides a generic reactive state container with a
// reducer contract and a principled mechanism for asynchronous effects.
//
// A Store owns one state value and serializes every change through a
// single loop goroutine. Callers describe what can happen with two closed
// enumerations: M for synchronous mutation requests and E for
// snapshot-reading effect requests.
//
// # Core Types
//
// Action[M, E] is the three-variant request union:
//
//	store.Mutating[M, E](m)  // synchronous state change
//	store.Run[M, E](e)       // run follow-up work against a snapshot
//	store.None[M, E]()       // explicit no-op
//
// Reducer[S, M, E] is the pure pair driving the store:
//
//	r := store.Reducer[S, M, E]{
//	    Mutate:    func(s *S, m M) store.Effect[M, E] { ... },
//	    RunEffect: func(s S, e E) store.Effect[M, E] { ... },
//	}
//
// Effect[M, E] is a lazy, possibly infinite producer of actions; it runs
// only once registered, and everything it emits lands back on the store's
// loop:
//
//	st := store.New(initial, r)
//	st.AddEffect(store.Debounced(store.Updates(st, sel), 800*time.Millisecond, action))
//	st.Send(store.Mutating[M, E](m))
//	defer st.Close()
//
// # Derived Streams, Bindings, Composition
//
// Updates projects state changes through a selector, removes consecutive
// duplicates, and skips the subscription-time value. Bind returns the
// read/write accessor pair a view layer uses. Connect subscribes one
// store to another's update stream, re-entering this store as an
// ordinary effect.
//
// # Concurrency
//
// Send never blocks and never drops. Actions are applied strictly in
// arrival order at the mailbox, whichever goroutine produced them; at
// most one Mutate or RunEffect executes at a time. The engine never
// cancels an effect's in-flight work other than cancelling its context
// at Close, and it never retries, recovers, or logs on the reducer's
// behalf: failures inside effects must be mapped to actions by their
// authors.
package store
