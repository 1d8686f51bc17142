package store

import "github.com/corestate/corestate/pkg/stream"

// Connect wires src's update stream for sel into dst's action channel
// using value equality for deduplication. See ConnectBy.
func Connect[S, M, E, S2, M2, E2, V any](
	dst *Store[S, M, E],
	src *Store[S2, M2, E2],
	sel func(S2) V,
	build func(V) Action[M, E],
) {
	ConnectBy(dst, src, sel, build, stream.DefaultEquals[V])
}

// ConnectBy registers a long-lived effect on dst that subscribes to
// src's deduplicated update stream for sel and maps every emission
// through build into dst's action type, then sends it. This is how
// independent stores compose without a shared state tree: dst treats
// src's changes purely as an external effect source, and only ever sees
// values src has already emitted, never src's internal state.
//
// The wiring lives until dst is closed.
func ConnectBy[S, M, E, S2, M2, E2, V any](
	dst *Store[S, M, E],
	src *Store[S2, M2, E2],
	sel func(S2) V,
	build func(V) Action[M, E],
	eq func(V, V) bool,
) {
	dst.AddEffect(FromStream(stream.Map(UpdatesBy(src, sel, eq), build)))
}
