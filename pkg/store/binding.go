package store

// Binding is the read/write accessor pair handed to a presentation layer:
// reading yields the current projected value, writing dispatches a
// mutating action built from the new value. It is the only state-mutation
// path a view ever holds; it never touches state directly.
type Binding[V any] struct {
	get func() V
	set func(V)
}

// Get returns the current projected value.
func (b Binding[V]) Get() V { return b.get() }

// Set constructs the mutating action for v and sends it immediately.
func (b Binding[V]) Set(v V) { b.set(v) }

// Bind returns a binding over st: reads go through sel on the current
// snapshot, writes go through build into Send as a mutating action.
func Bind[S, M, E, V any](st *Store[S, M, E], sel func(S) V, build func(V) M) Binding[V] {
	return Binding[V]{
		get: func() V { return sel(st.State()) },
		set: func(v V) { st.Send(Mutating[M, E](build(v))) },
	}
}
