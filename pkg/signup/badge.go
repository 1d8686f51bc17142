package signup

import "github.com/corestate/corestate/pkg/store"

// Badge is a second, independent store that mirrors the form's readiness.
// It exists to show how stores compose: the badge never reads the form's
// state, it only consumes the form's CanSignUp update stream as an
// external effect source.

// BadgeState is the badge's whole state.
type BadgeState struct {
	Ready bool
}

// BadgeMutation is the badge's closed mutation set.
type BadgeMutation interface{ isBadgeMutation() }

// SetReady updates the readiness flag.
type SetReady struct{ Ready bool }

func (SetReady) isBadgeMutation() {}

// BadgeRequest is the badge's effect-request set. It has no variants; the
// badge does no snapshot-reading work of its own.
type BadgeRequest interface{ isBadgeRequest() }

// NewBadge creates a badge store wired to form's CanSignUp updates.
// The wiring lives until the badge store is closed.
func NewBadge(form *Form, opts ...store.Option) *store.Store[BadgeState, BadgeMutation, BadgeRequest] {
	b := store.New(BadgeState{}, store.Reducer[BadgeState, BadgeMutation, BadgeRequest]{
		Mutate: func(s *BadgeState, m BadgeMutation) store.Effect[BadgeMutation, BadgeRequest] {
			switch m := m.(type) {
			case SetReady:
				s.Ready = m.Ready
			}
			return store.Effect[BadgeMutation, BadgeRequest]{}
		},
		RunEffect: func(BadgeState, BadgeRequest) store.Effect[BadgeMutation, BadgeRequest] {
			return store.EffectOf(store.None[BadgeMutation, BadgeRequest]())
		},
	}, opts...)

	store.Connect(b, form,
		func(s State) bool { return s.CanSignUp },
		func(ready bool) store.Action[BadgeMutation, BadgeRequest] {
			return store.Mutating[BadgeMutation, BadgeRequest](SetReady{Ready: ready})
		})

	return b
}
