package stream

import (
	"sync"
	"time"
)

// Distinct returns a stream that suppresses consecutive duplicates, as
// determined by eq. The first upstream value always passes. Duplicate
// tracking is per-subscription.
func Distinct[T any](s Stream[T], eq func(T, T) bool) Stream[T] {
	return Func[T](func(fn func(T)) func() {
		var mu sync.Mutex
		var prev T
		var seen bool

		return s.Subscribe(func(v T) {
			mu.Lock()
			if seen && eq(v, prev) {
				mu.Unlock()
				return
			}
			prev = v
			seen = true
			mu.Unlock()

			fn(v)
		})
	})
}

// DropFirst returns a stream that discards the first upstream value of
// each subscription and passes every subsequent value through.
func DropFirst[T any](s Stream[T]) Stream[T] {
	return Func[T](func(fn func(T)) func() {
		var mu sync.Mutex
		dropped := false

		return s.Subscribe(func(v T) {
			mu.Lock()
			if !dropped {
				dropped = true
				mu.Unlock()
				return
			}
			mu.Unlock()

			fn(v)
		})
	})
}

// Debounce returns a stream that emits the most recent upstream value once
// quiet has elapsed with no further upstream emissions. Each elapsed quiet
// period produces exactly one emission, on the timer's goroutine.
func Debounce[T any](s Stream[T], quiet time.Duration) Stream[T] {
	return Func[T](func(fn func(T)) func() {
		var mu sync.Mutex
		var timer *time.Timer
		var last T
		var gen uint64
		stopped := false

		cancel := s.Subscribe(func(v T) {
			mu.Lock()
			defer mu.Unlock()
			if stopped {
				return
			}
			last = v
			// Stop can miss a timer whose callback is already running
			// and blocked on mu; the generation check makes that stale
			// callback a no-op instead of an early double fire.
			gen++
			g := gen
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(quiet, func() {
				mu.Lock()
				if stopped || gen != g {
					mu.Unlock()
					return
				}
				v := last
				mu.Unlock()

				fn(v)
			})
		})

		return func() {
			cancel()
			mu.Lock()
			stopped = true
			if timer != nil {
				timer.Stop()
			}
			mu.Unlock()
		}
	})
}

// Merge is a dynamic N-way flattener: a Stream whose values are the union
// of every added upstream stream. Upstreams may be added at any time and
// there is no upper bound on their number. An upstream is subscribed the
// moment it is added and stays subscribed until its remove function is
// called or the Merge is closed.
type Merge[T any] struct {
	out *Source[T]

	mu      sync.Mutex
	cancels map[uint64]func()
	nextID  uint64
	closed  bool
}

// NewMerge creates an empty Merge.
func NewMerge[T any]() *Merge[T] {
	return &Merge[T]{
		out:     NewSource[T](),
		cancels: make(map[uint64]func()),
	}
}

// Subscribe attaches a handler to the merged output.
func (m *Merge[T]) Subscribe(fn func(T)) func() {
	return m.out.Subscribe(fn)
}

// Add subscribes the Merge to s and begins forwarding its values.
// The returned remove function detaches s from the Merge.
func (m *Merge[T]) Add(s Stream[T]) (remove func()) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return func() {}
	}
	m.nextID++
	id := m.nextID
	m.mu.Unlock()

	// Subscribing outside the lock: the upstream may emit synchronously,
	// and out.Publish must not deadlock against m.mu.
	cancel := s.Subscribe(m.out.Publish)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		return func() {}
	}
	m.cancels[id] = cancel
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		cancel, ok := m.cancels[id]
		delete(m.cancels, id)
		m.mu.Unlock()
		if ok {
			cancel()
		}
	}
}

// Len returns the number of live upstream streams.
func (m *Merge[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.cancels)
}

// Close cancels every upstream subscription and drops all output
// subscribers. Add and Subscribe after Close are no-ops.
func (m *Merge[T]) Close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	cancels := m.cancels
	m.cancels = nil
	m.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
	m.out.Close()
}
