package store

import "github.com/corestate/corestate/pkg/stream"

// Updates returns the derived, read-only stream of projected-state values
// for sel, deduplicated by value equality. See UpdatesBy.
//
// These are free functions rather than methods because Go methods cannot
// introduce the projection's type parameter.
func Updates[S, M, E, V any](st *Store[S, M, E], sel func(S) V) stream.Stream[V] {
	return UpdatesBy(st, sel, stream.DefaultEquals[V])
}

// UpdatesBy returns the derived update stream for sel with an explicit
// equality comparison. Per subscription: every state change is projected
// through sel, consecutive duplicates (per eq) are removed, and the value
// reflecting the state at subscription time is dropped; only changes
// strictly after subscription are emitted, in change order. The stream
// never re-emits a value equal, per eq, to its immediately preceding
// emission.
//
// Values are delivered on the store's loop goroutine; a subscriber that
// needs another context must hop itself. Feeding the values into a
// store's Send (as Connect does) is always safe.
func UpdatesBy[S, M, E, V any](st *Store[S, M, E], sel func(S) V, eq func(V, V) bool) stream.Stream[V] {
	return stream.Func[V](func(fn func(V)) func() {
		// Seeding prev with the subscription-time projection is what
		// drops the initial value: the first notification only passes
		// if it differs from what was current at subscribe.
		prev := sel(st.State())

		return st.observe(func(s S) {
			v := sel(s)
			if eq(v, prev) {
				return
			}
			prev = v
			fn(v)
		})
	})
}
