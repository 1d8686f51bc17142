package stream

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDistinct(t *testing.T) {
	src := NewSource[int]()

	var got []int
	cancel := Distinct(src, DefaultEquals[int]).Subscribe(func(v int) { got = append(got, v) })
	defer cancel()

	for _, v := range []int{1, 1, 2, 2, 2, 3, 1} {
		src.Publish(v)
	}

	want := []int{1, 2, 3, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestDistinctCustomEquality(t *testing.T) {
	src := NewSource[string]()

	var got []string
	cancel := Distinct(src, func(a, b string) bool {
		return strings.EqualFold(a, b)
	}).Subscribe(func(v string) { got = append(got, v) })
	defer cancel()

	src.Publish("go")
	src.Publish("GO")
	src.Publish("Go")
	src.Publish("rust")

	if len(got) != 2 || got[0] != "go" || got[1] != "rust" {
		t.Errorf("expected [go rust], got %v", got)
	}
}

func TestDistinctPerSubscription(t *testing.T) {
	src := NewSource[int]()
	d := Distinct(src, DefaultEquals[int])

	var a []int
	d.Subscribe(func(v int) { a = append(a, v) })
	src.Publish(1)

	// A late subscriber has its own duplicate tracking: it must still
	// receive the first value it sees.
	var b []int
	d.Subscribe(func(v int) { b = append(b, v) })
	src.Publish(1)

	if len(a) != 1 {
		t.Errorf("first subscriber expected 1 value, got %v", a)
	}
	if len(b) != 1 || b[0] != 1 {
		t.Errorf("second subscriber expected [1], got %v", b)
	}
}

func TestDropFirst(t *testing.T) {
	src := NewSource[int]()

	var got []int
	cancel := DropFirst[int](src).Subscribe(func(v int) { got = append(got, v) })
	defer cancel()

	src.Publish(10)
	src.Publish(20)
	src.Publish(30)

	if len(got) != 2 || got[0] != 20 || got[1] != 30 {
		t.Errorf("expected [20 30], got %v", got)
	}
}

func TestDebounceSuppressesRapidChanges(t *testing.T) {
	src := NewSource[int]()
	quiet := 80 * time.Millisecond

	var mu sync.Mutex
	var got []int
	cancel := Debounce[int](src, quiet).Subscribe(func(v int) {
		mu.Lock()
		got = append(got, v)
		mu.Unlock()
	})
	defer cancel()

	// Rapid burst, all within the quiet period.
	for i := 1; i <= 5; i++ {
		src.Publish(i)
		time.Sleep(5 * time.Millisecond)
	}

	// Nothing may fire until quiet elapses after the last change.
	mu.Lock()
	n := len(got)
	mu.Unlock()
	if n != 0 {
		t.Fatalf("debounce fired before quiet period, got %v", got)
	}

	deadline := time.Now().Add(2 * time.Second)
	for {
		mu.Lock()
		n = len(got)
		mu.Unlock()
		if n > 0 || time.Now().After(deadline) {
			break
		}
		time.Sleep(2 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("expected exactly one emission of the last value [5], got %v", got)
	}
}

func TestDebounceFiresOncePerQuietPeriod(t *testing.T) {
	src := NewSource[int]()
	quiet := 40 * time.Millisecond

	var mu sync.Mutex
	count := 0
	cancel := Debounce[int](src, quiet).Subscribe(func(int) {
		mu.Lock()
		count++
		mu.Unlock()
	})
	defer cancel()

	src.Publish(1)
	time.Sleep(3 * quiet)
	src.Publish(2)
	time.Sleep(3 * quiet)

	mu.Lock()
	defer mu.Unlock()
	if count != 2 {
		t.Errorf("expected 2 emissions for 2 separated changes, got %d", count)
	}
}

func TestDebounceCancelStopsTimer(t *testing.T) {
	src := NewSource[int]()
	quiet := 30 * time.Millisecond

	var mu sync.Mutex
	count := 0
	cancel := Debounce[int](src, quiet).Subscribe(func(int) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	src.Publish(1)
	cancel()
	time.Sleep(3 * quiet)

	mu.Lock()
	defer mu.Unlock()
	if count != 0 {
		t.Errorf("expected no emission after cancel, got %d", count)
	}
}

func TestDebounceNoDoubleFireAtBoundary(t *testing.T) {
	src := NewSource[int]()
	quiet := 20 * time.Millisecond

	var mu sync.Mutex
	var fired []time.Time
	cancel := Debounce[int](src, quiet).Subscribe(func(int) {
		mu.Lock()
		fired = append(fired, time.Now())
		mu.Unlock()
	})
	defer cancel()

	// Publish right at the quiet-period boundary, repeatedly, so some
	// publishes land while the previous timer's callback is in flight.
	// A value arriving then must not be emitted by the stale callback
	// and again by its own timer.
	for i := 0; i < 30; i++ {
		src.Publish(i)
		time.Sleep(quiet)
	}
	time.Sleep(3 * quiet)

	mu.Lock()
	defer mu.Unlock()
	if len(fired) == 0 {
		t.Fatal("expected at least one emission")
	}
	for i := 1; i < len(fired); i++ {
		if gap := fired[i].Sub(fired[i-1]); gap < quiet/2 {
			t.Fatalf("emissions %d and %d only %v apart, want at least the quiet period between fires", i-1, i, gap)
		}
	}
}

func TestMergeFansIn(t *testing.T) {
	m := NewMerge[int]()

	var got []int
	cancel := m.Subscribe(func(v int) { got = append(got, v) })
	defer cancel()

	a := NewSource[int]()
	b := NewSource[int]()
	m.Add(a)
	m.Add(b)

	a.Publish(1)
	b.Publish(2)
	a.Publish(3)

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Errorf("expected [1 2 3] in arrival order, got %v", got)
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 live upstreams, got %d", m.Len())
	}
}

func TestMergeDynamicAdd(t *testing.T) {
	m := NewMerge[int]()

	var got []int
	m.Subscribe(func(v int) { got = append(got, v) })

	a := NewSource[int]()
	m.Add(a)
	a.Publish(1)

	// Upstreams may be added while the merge is already flowing.
	b := NewSource[int]()
	m.Add(b)
	b.Publish(2)

	if len(got) != 2 {
		t.Errorf("expected values from both upstreams, got %v", got)
	}
}

func TestMergeRemove(t *testing.T) {
	m := NewMerge[int]()

	count := 0
	m.Subscribe(func(int) { count++ })

	a := NewSource[int]()
	remove := m.Add(a)

	a.Publish(1)
	remove()
	a.Publish(2)

	if count != 1 {
		t.Errorf("expected 1 delivery after remove, got %d", count)
	}
	if m.Len() != 0 {
		t.Errorf("expected 0 upstreams after remove, got %d", m.Len())
	}
}

func TestMergeClose(t *testing.T) {
	m := NewMerge[int]()

	count := 0
	m.Subscribe(func(int) { count++ })

	a := NewSource[int]()
	m.Add(a)

	m.Close()
	a.Publish(1)

	if count != 0 {
		t.Errorf("expected no deliveries after close, got %d", count)
	}
	if a.Len() != 0 {
		t.Errorf("expected upstream unsubscribed on close, got %d", a.Len())
	}

	// Add after close must not subscribe.
	b := NewSource[int]()
	m.Add(b)
	if b.Len() != 0 {
		t.Errorf("expected no subscription after close, got %d", b.Len())
	}
}
