package store

import "errors"

// ErrStoreClosed is returned when an operation that needs the store's
// loop (such as Flush) finds the store already closed. Send and AddEffect
// never return it; they silently discard after Close, matching teardown
// semantics where in-flight work simply has nowhere left to land.
var ErrStoreClosed = errors.New("corestate: store closed")

// ErrEffectSpent is the defect logged when a spent Effect value is
// registered a second time. Effects are single-use; re-running the same
// work requires constructing a fresh Effect.
var ErrEffectSpent = errors.New("corestate: effect already started")
