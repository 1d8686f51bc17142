// Package signup is the canonical end-to-end client of the store engine:
// a sign-up form with two debounced validation watchers, a read/write
// binding surface for each field, and a snapshot-reading submit request.
// It contains no engine logic; the engine only ever sees its closed
// Mutation and Request enumerations.
package signup

import (
	"time"

	"github.com/corestate/corestate/pkg/store"
)

// Validation thresholds and messages.
const (
	MinUsernameLen = 3
	MinPasswordLen = 5

	UsernameTooShortMessage = "Username must at least have 3 characters"
	PasswordEmptyMessage    = "Password cannot be empty"
	PasswordTooWeakMessage  = "Password not strong enough"
	PasswordMismatchMessage = "Passwords don't match"
)

// DefaultQuiet is the typing quiet period after which validation fires.
const DefaultQuiet = 800 * time.Millisecond

// State is the whole form state. Field values update on every keystroke;
// the message fields only move when a debounced validation pass fires.
type State struct {
	Username      string
	Password      string
	PasswordAgain string

	UsernameMessage string
	PasswordMessage string

	CanSignUp  bool
	ShowSignUp bool
}

// Mutation is the closed set of synchronous state changes.
type Mutation interface{ isMutation() }

// SetUsername updates the username field.
type SetUsername struct{ Value string }

// SetPassword updates the password field.
type SetPassword struct{ Value string }

// SetPasswordAgain updates the password confirmation field.
type SetPasswordAgain struct{ Value string }

// ValidateUsername recomputes the username message. Fired by the
// debounced username watcher, never directly by the view.
type ValidateUsername struct{}

// ValidatePassword recomputes the password message. Fired by the
// debounced password watcher.
type ValidatePassword struct{}

// ShowSignUpUI raises the confirmation-sheet presentation flag.
type ShowSignUpUI struct{}

// HideSignUpUI clears the confirmation-sheet presentation flag.
type HideSignUpUI struct{}

func (SetUsername) isMutation()      {}
func (SetPassword) isMutation()      {}
func (SetPasswordAgain) isMutation() {}
func (ValidateUsername) isMutation() {}
func (ValidatePassword) isMutation() {}
func (ShowSignUpUI) isMutation()     {}
func (HideSignUpUI) isMutation()     {}

// Request is the closed set of snapshot-reading effect requests.
type Request interface{ isRequest() }

// Submit checks the current snapshot and, if the form is complete,
// resolves to ShowSignUpUI; otherwise it resolves to no action.
type Submit struct{}

func (Submit) isRequest() {}

// Form is the sign-up form store type.
type Form = store.Store[State, Mutation, Request]

// NewReducer returns the form reducer.
func NewReducer() store.Reducer[State, Mutation, Request] {
	return store.Reducer[State, Mutation, Request]{
		Mutate:    mutate,
		RunEffect: runEffect,
	}
}

func mutate(s *State, m Mutation) store.Effect[Mutation, Request] {
	switch m := m.(type) {
	case SetUsername:
		s.Username = m.Value
	case SetPassword:
		s.Password = m.Value
	case SetPasswordAgain:
		s.PasswordAgain = m.Value
	case ValidateUsername:
		s.UsernameMessage = usernameMessage(s.Username)
	case ValidatePassword:
		s.PasswordMessage = passwordMessage(s.Password, s.PasswordAgain)
	case ShowSignUpUI:
		s.ShowSignUp = true
	case HideSignUpUI:
		s.ShowSignUp = false
	}

	// Completeness tracks the raw field values, not the messages, so the
	// button state is never stale behind a pending validation pass.
	s.CanSignUp = valid(*s)

	return store.Effect[Mutation, Request]{}
}

func runEffect(s State, e Request) store.Effect[Mutation, Request] {
	switch e.(type) {
	case Submit:
		if s.CanSignUp {
			return store.EffectOf(store.Mutating[Mutation, Request](ShowSignUpUI{}))
		}
		return store.EffectOf(store.None[Mutation, Request]())
	default:
		return store.EffectOf(store.None[Mutation, Request]())
	}
}

func valid(s State) bool {
	return len(s.Username) >= MinUsernameLen &&
		s.Password != "" &&
		len(s.Password) >= MinPasswordLen &&
		s.Password == s.PasswordAgain
}

func usernameMessage(username string) string {
	if len(username) < MinUsernameLen {
		return UsernameTooShortMessage
	}
	return ""
}

// passwordMessage checks non-empty, then length, then match, in that
// order; the states are mutually exclusive. The mismatch message is
// suppressed while the confirmation field is still empty.
func passwordMessage(password, again string) string {
	switch {
	case password == "":
		return PasswordEmptyMessage
	case len(password) < MinPasswordLen:
		return PasswordTooWeakMessage
	case again != "" && password != again:
		return PasswordMismatchMessage
	default:
		return ""
	}
}

// passwordInput is what the password watcher observes: validation must
// re-fire when either field settles.
type passwordInput struct {
	Password string
	Again    string
}

// New creates the form store with its two debounced validation watchers
// attached, using the default quiet period.
func New(opts ...store.Option) *Form {
	return NewWithQuiet(DefaultQuiet, opts...)
}

// NewWithQuiet is New with a caller-supplied quiet period; tests use a
// short one.
func NewWithQuiet(quiet time.Duration, opts ...store.Option) *Form {
	st := store.New(State{}, NewReducer(), opts...)

	st.AddEffect(store.Debounced(
		store.Updates(st, func(s State) string { return s.Username }),
		quiet,
		store.Mutating[Mutation, Request](ValidateUsername{}),
	))

	st.AddEffect(store.Debounced(
		store.Updates(st, func(s State) passwordInput {
			return passwordInput{Password: s.Password, Again: s.PasswordAgain}
		}),
		quiet,
		store.Mutating[Mutation, Request](ValidatePassword{}),
	))

	return st
}

// UsernameBinding returns the username field accessor for a view layer.
func UsernameBinding(f *Form) store.Binding[string] {
	return store.Bind(f, func(s State) string { return s.Username },
		func(v string) Mutation { return SetUsername{Value: v} })
}

// PasswordBinding returns the password field accessor.
func PasswordBinding(f *Form) store.Binding[string] {
	return store.Bind(f, func(s State) string { return s.Password },
		func(v string) Mutation { return SetPassword{Value: v} })
}

// PasswordAgainBinding returns the confirmation field accessor.
func PasswordAgainBinding(f *Form) store.Binding[string] {
	return store.Bind(f, func(s State) string { return s.PasswordAgain },
		func(v string) Mutation { return SetPasswordAgain{Value: v} })
}
