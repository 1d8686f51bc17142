package store

// actionKind discriminates the Action union. The set is closed: no
// constructor for a fourth kind exists outside this package.
type actionKind uint8

const (
	actionNone actionKind = iota
	actionMutating
	actionRun
)

// String returns a human-readable name for the action kind.
func (k actionKind) String() string {
	switch k {
	case actionNone:
		return "none"
	case actionMutating:
		return "mutating"
	case actionRun:
		return "effect"
	default:
		return "unknown"
	}
}

// Action is a request to a store: either a synchronous mutation request
// carrying an M, a snapshot-reading effect request carrying an E, or an
// explicit no-op. M and E are the caller's closed enumerations; one pair
// of them per store type.
//
// Construct with Mutating, Run, or None. The zero Action is None.
type Action[M, E any] struct {
	kind     actionKind
	mutation M
	request  E
}

// Mutating returns an action requesting the synchronous state transition m.
func Mutating[M, E any](m M) Action[M, E] {
	return Action[M, E]{kind: actionMutating, mutation: m}
}

// Run returns an action requesting that the side-effect computation e be
// run against a read-only snapshot of state.
func Run[M, E any](e E) Action[M, E] {
	return Action[M, E]{kind: actionRun, request: e}
}

// None returns the explicit no-op action. It is the only value the engine
// treats as "nothing to do"; effects that have no outcome must produce it
// rather than going silent mid-protocol.
func None[M, E any]() Action[M, E] {
	return Action[M, E]{kind: actionNone}
}

// IsNone reports whether a is the no-op action.
func (a Action[M, E]) IsNone() bool {
	return a.kind == actionNone
}
