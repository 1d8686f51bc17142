package store

// Reducer is the pure pair of functions defining how a store's state
// changes and how snapshot-reading requests produce follow-up work.
//
// Mutate receives exclusive write access to the current state and one M.
// It is the only code path permitted to change S, runs synchronously to
// completion on the store's loop, and never interleaves with another
// Mutate or RunEffect call on the same store. It may return a follow-up
// Effect; the zero Effect means none.
//
// RunEffect receives a read-only snapshot of state and one E, and returns
// exactly one Effect. A variant that needs no follow-up must still return
// an effect that eventually resolves to None. Returning the zero Effect
// from RunEffect is a programming error.
//
// Both functions must be deterministic given their inputs; any
// nondeterminism belongs inside the Effects they construct. Neither may
// perform I/O at call time.
//
// Splitting the two keeps actions that only ever trigger follow-up work
// off the mutation path, so they never raise a state-changed notification
// to observers.
type Reducer[S, M, E any] struct {
	Mutate    func(s *S, m M) Effect[M, E]
	RunEffect func(s S, e E) Effect[M, E]
}
