package store

import (
	"testing"
)

// mirrorStore tracks the latest total it has been told about plus how
// many times it was told.
type mirrorState struct {
	Latest int
	Writes int
}

func newMirror(t *testing.T) *Store[mirrorState, int, struct{}] {
	t.Helper()
	r := Reducer[mirrorState, int, struct{}]{
		Mutate: func(s *mirrorState, m int) Effect[int, struct{}] {
			s.Latest = m
			s.Writes++
			return Effect[int, struct{}]{}
		},
		RunEffect: func(mirrorState, struct{}) Effect[int, struct{}] {
			return EffectOf(None[int, struct{}]())
		},
	}
	st := New(mirrorState{}, r)
	t.Cleanup(st.Close)
	return st
}

func TestConnectPropagatesChanges(t *testing.T) {
	src := newCalc(t)
	dst := newMirror(t)

	Connect(dst, src,
		func(s calcState) int { return s.Total },
		func(v int) Action[int, struct{}] { return Mutating[int, struct{}](v) },
	)

	src.Send(Mutating[int, string](10))
	waitFor(t, func() bool { return dst.State().Latest == 10 }, "first change propagated")

	src.Send(Mutating[int, string](5))
	waitFor(t, func() bool { return dst.State().Latest == 15 }, "second change propagated")
}

func TestConnectSkipsCurrentValue(t *testing.T) {
	src := newCalc(t)
	src.Send(Mutating[int, string](99))
	if err := src.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	dst := newMirror(t)
	Connect(dst, src,
		func(s calcState) int { return s.Total },
		func(v int) Action[int, struct{}] { return Mutating[int, struct{}](v) },
	)

	// The value already present when the wiring is created must not
	// cross over; only subsequent changes do.
	if err := src.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := dst.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := dst.State().Writes; got != 0 {
		t.Errorf("expected no propagation of the subscription-time value, got %d writes", got)
	}

	src.Send(Mutating[int, string](1))
	waitFor(t, func() bool { return dst.State().Latest == 100 }, "subsequent change propagated")
}

func TestConnectDeduplicates(t *testing.T) {
	src := newCalc(t)
	dst := newMirror(t)

	Connect(dst, src,
		func(s calcState) int { return s.Total },
		func(v int) Action[int, struct{}] { return Mutating[int, struct{}](v) },
	)

	// Zero deltas change nothing; they must not reach dst.
	src.Send(Mutating[int, string](0))
	src.Send(Mutating[int, string](0))
	src.Send(Mutating[int, string](3))

	waitFor(t, func() bool { return dst.State().Latest == 3 }, "change propagated")
	if got := dst.State().Writes; got != 1 {
		t.Errorf("expected 1 deduplicated write, got %d", got)
	}
}

func TestConnectSeveredByDstClose(t *testing.T) {
	src := newCalc(t)

	dst := newMirror(t)
	Connect(dst, src,
		func(s calcState) int { return s.Total },
		func(v int) Action[int, struct{}] { return Mutating[int, struct{}](v) },
	)

	src.Send(Mutating[int, string](1))
	waitFor(t, func() bool { return dst.State().Latest == 1 }, "change propagated")

	dst.Close()

	// src keeps working on its own after dst is gone.
	src.Send(Mutating[int, string](1))
	if err := src.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if got := src.State().Total; got != 2 {
		t.Errorf("src broken after dst close: %d", got)
	}
}
