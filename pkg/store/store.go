package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/corestate/corestate/pkg/stream"
)

// Store owns one state value, its reducer, and the live pool of registered
// effects. It is the sole path through which state may change.
//
// All action application is serialized on a single loop goroutine: at most
// one Mutate or RunEffect call executes at a time, and calls never
// interleave. Effects may emit from arbitrary goroutines; their actions
// funnel through one merge point back into the loop in arrival order.
type Store[S, M, E any] struct {
	id      string
	name    string
	reducer Reducer[S, M, E]

	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer

	// state is exclusively owned by the store; outside code only ever
	// sees snapshots.
	stateMu sync.RWMutex
	state   S

	// mailbox is the unbounded FIFO of work for the loop goroutine.
	// Send must never block and never drop, so a channel is not enough.
	mailMu  sync.Mutex
	mailbox []func()
	wake    chan struct{}

	// observers are notified with a snapshot after every completed
	// mutating dispatch. Invoked only on the loop goroutine.
	obsMu     sync.Mutex
	nextObsID uint64
	observers map[uint64]func(S)

	// pool merges every registered effect into one combined action
	// stream; the store holds exactly one subscription to it.
	pool       *stream.Merge[Action[M, E]]
	unsubPool  func()
	effectsWG  sync.WaitGroup
	liveFx     atomic.Int64
	effectCtx  context.Context
	cancelFx   context.CancelFunc

	closed atomic.Bool
	done   chan struct{}
}

// Option configures a Store at construction time.
type Option func(*options)

type options struct {
	name    string
	logger  *slog.Logger
	metrics *Metrics
	tracer  trace.Tracer
}

// WithName sets a human-readable store name, used in log fields, metric
// labels, and span attributes. Defaults to "store".
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics attaches Prometheus instrumentation to the store.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithTracer attaches an OpenTelemetry tracer; every dispatched action
// gets a span.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// New creates a store with the given initial state and reducer and starts
// its loop. Callers may immediately register long-lived watchers with
// AddEffect before handing the store to a presentation layer. The store
// must be released with Close.
func New[S, M, E any](initial S, r Reducer[S, M, E], opts ...Option) *Store[S, M, E] {
	o := options{name: "store", logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	st := &Store[S, M, E]{
		id:        ulid.Make().String(),
		name:      o.name,
		reducer:   r,
		logger:    o.logger,
		metrics:   o.metrics,
		tracer:    o.tracer,
		state:     initial,
		wake:      make(chan struct{}, 1),
		observers: make(map[uint64]func(S)),
		pool:      stream.NewMerge[Action[M, E]](),
		effectCtx: ctx,
		cancelFx:  cancel,
		done:      make(chan struct{}),
	}

	// The single funnel from the merged effect pool back into the loop.
	// The closure holds the store only through Send, which discards once
	// the store is closed; no subscription outlives Close.
	st.unsubPool = st.pool.Subscribe(st.Send)

	go st.loop()

	st.logger.Debug("store created", "store", st.name, "id", st.id)
	return st
}

// ID returns the store's unique identifier.
func (st *Store[S, M, E]) ID() string { return st.id }

// Name returns the store's configured name.
func (st *Store[S, M, E]) Name() string { return st.name }

// State returns a snapshot of the current state, reflecting the most
// recently completed Mutate call.
func (st *Store[S, M, E]) State() S {
	st.stateMu.RLock()
	defer st.stateMu.RUnlock()
	return st.state
}

// Send dispatches one action. It never blocks: the action is queued on
// the store's mailbox and applied on the loop goroutine in the order Send
// is called. Sends after Close are discarded.
func (st *Store[S, M, E]) Send(a Action[M, E]) {
	st.dispatch(func() { st.apply(a) })
}

// mailboxWarnDepth is the backlog depth at which the store logs that the
// loop is falling behind its producers.
const mailboxWarnDepth = 1024

// dispatch queues fn for the loop goroutine. Reports false if the store
// is closed.
func (st *Store[S, M, E]) dispatch(fn func()) bool {
	if st.closed.Load() {
		return false
	}

	st.mailMu.Lock()
	st.mailbox = append(st.mailbox, fn)
	depth := len(st.mailbox)
	st.mailMu.Unlock()

	if depth == mailboxWarnDepth {
		st.logger.Warn("mailbox backlog",
			"store", st.name, "id", st.id, "depth", depth)
	}

	select {
	case st.wake <- struct{}{}:
	default:
	}
	return true
}

// loop drains the mailbox in FIFO order until the store is closed.
func (st *Store[S, M, E]) loop() {
	for {
		select {
		case <-st.done:
			return
		case <-st.wake:
		}

		for {
			st.mailMu.Lock()
			if len(st.mailbox) == 0 {
				st.mailMu.Unlock()
				break
			}
			batch := st.mailbox
			st.mailbox = nil
			st.mailMu.Unlock()

			for _, fn := range batch {
				fn()
			}
		}
	}
}

// apply executes one action on the loop goroutine.
func (st *Store[S, M, E]) apply(a Action[M, E]) {
	st.metrics.recordAction(st.name, a.kind.String())

	switch a.kind {
	case actionNone:
		// Explicit no-op.

	case actionMutating:
		span := st.startSpan("store.mutate")
		start := time.Now()

		st.stateMu.Lock()
		eff := st.runMutate(&st.state, a.mutation)
		snapshot := st.state
		st.stateMu.Unlock()

		st.metrics.observeMutate(st.name, time.Since(start))
		st.endSpan(span)

		// Every mutating dispatch notifies, whether or not the value
		// changed; dedup belongs to the derived update streams.
		st.notify(snapshot)

		if !eff.Empty() {
			st.register(eff)
		}

	case actionRun:
		span := st.startSpan("store.effect")
		eff := st.runRequest(st.State(), a.request)
		st.endSpan(span)

		if eff.Empty() {
			// RunEffect must be total. Surfacing the defect loudly here
			// beats dropping the request on the floor.
			st.logger.Error("reducer returned empty effect",
				"store", st.name, "id", st.id)
			return
		}
		st.register(eff)
	}
}

// runMutate invokes the reducer's Mutate, adding store context to a panic
// without swallowing it: a fault inside Mutate is a programming error.
func (st *Store[S, M, E]) runMutate(s *S, m M) Effect[M, E] {
	defer func() {
		if r := recover(); r != nil {
			st.logger.Error("panic in reducer mutate",
				"store", st.name, "id", st.id, "panic", r)
			panic(r)
		}
	}()
	return st.reducer.Mutate(s, m)
}

// runRequest invokes the reducer's RunEffect with the same panic policy
// as runMutate.
func (st *Store[S, M, E]) runRequest(s S, e E) Effect[M, E] {
	defer func() {
		if r := recover(); r != nil {
			st.logger.Error("panic in reducer run-effect",
				"store", st.name, "id", st.id, "panic", r)
			panic(r)
		}
	}()
	return st.reducer.RunEffect(s, e)
}

// AddEffect registers an effect into the store's merged effect pool and
// starts it immediately. Its emitted actions funnel back through Send,
// landing on the loop in arrival order. There is no bound on how many
// effects may be live at once; an effect that never completes persists
// until Close.
func (st *Store[S, M, E]) AddEffect(eff Effect[M, E]) {
	if eff.Empty() || st.closed.Load() {
		return
	}
	st.register(eff)
}

func (st *Store[S, M, E]) register(eff Effect[M, E]) {
	if eff.started != nil && eff.started.Swap(true) {
		st.logger.Warn("spent effect re-registered, ignoring",
			"store", st.name, "id", st.id, "err", ErrEffectSpent)
		return
	}

	if eff.subscribe != nil {
		st.registerWatcher(eff)
		return
	}

	var remove func()
	ready := make(chan struct{})

	remove = st.pool.Add(stream.Func[Action[M, E]](func(emit func(Action[M, E])) func() {
		ctx, cancel := context.WithCancel(st.effectCtx)

		st.effectsWG.Add(1)
		st.metrics.setEffectsActive(st.name, st.liveFx.Add(1))

		go func() {
			defer st.effectsWG.Done()
			<-ready
			eff.run(ctx, emit)
			st.metrics.setEffectsActive(st.name, st.liveFx.Add(-1))
			remove()
		}()

		return cancel
	}))
	close(ready)
}

// registerWatcher merges a subscription-based effect into the pool. The
// upstream subscription is established synchronously, so a change landing
// right after registration is already observed. Watchers never complete
// on their own; the pool drops them at Close.
func (st *Store[S, M, E]) registerWatcher(eff Effect[M, E]) {
	st.metrics.setEffectsActive(st.name, st.liveFx.Add(1))

	var once sync.Once
	st.pool.Add(stream.Func[Action[M, E]](func(emit func(Action[M, E])) func() {
		inner := eff.subscribe(emit)
		return func() {
			once.Do(func() {
				inner()
				st.metrics.setEffectsActive(st.name, st.liveFx.Add(-1))
			})
		}
	}))
}

// EffectCount returns the number of currently live effects.
func (st *Store[S, M, E]) EffectCount() int {
	return int(st.liveFx.Load())
}

// observe registers a raw state observer, called with a snapshot on the
// loop goroutine after every completed mutating dispatch. Derived update
// streams are built on top of this; it is not part of the public surface.
func (st *Store[S, M, E]) observe(fn func(S)) (cancel func()) {
	st.obsMu.Lock()
	defer st.obsMu.Unlock()
	if st.closed.Load() {
		return func() {}
	}

	st.nextObsID++
	id := st.nextObsID
	st.observers[id] = fn
	st.metrics.setObserversActive(st.name, len(st.observers))

	return func() {
		st.obsMu.Lock()
		defer st.obsMu.Unlock()
		delete(st.observers, id)
		st.metrics.setObserversActive(st.name, len(st.observers))
	}
}

// notify runs on the loop goroutine; copy-before-notify so observer
// callbacks never run under the lock.
func (st *Store[S, M, E]) notify(snapshot S) {
	st.obsMu.Lock()
	obs := make([]func(S), 0, len(st.observers))
	for _, fn := range st.observers {
		obs = append(obs, fn)
	}
	st.obsMu.Unlock()

	for _, fn := range obs {
		fn(snapshot)
	}
}

// Flush blocks until every action queued before the call has been applied.
// It returns ErrStoreClosed if the store closes before the barrier lands.
func (st *Store[S, M, E]) Flush() error {
	barrier := make(chan struct{})
	if !st.dispatch(func() { close(barrier) }) {
		return ErrStoreClosed
	}
	select {
	case <-barrier:
		return nil
	case <-st.done:
		return ErrStoreClosed
	}
}

// Close tears the store down: the loop stops, every effect's context is
// cancelled, all subscriptions (pool and observers) are released, and
// further Sends are discarded. Effect completion order during teardown is
// unspecified. Close is idempotent.
func (st *Store[S, M, E]) Close() {
	if st.closed.Swap(true) {
		return
	}

	st.cancelFx()
	st.unsubPool()
	st.pool.Close()
	close(st.done)

	st.obsMu.Lock()
	st.observers = nil
	st.obsMu.Unlock()

	st.effectsWG.Wait()
	st.metrics.setEffectsActive(st.name, 0)
	st.metrics.setObserversActive(st.name, 0)

	st.logger.Debug("store closed", "store", st.name, "id", st.id)
}

// IsClosed reports whether Close has been called.
func (st *Store[S, M, E]) IsClosed() bool {
	return st.closed.Load()
}

func (st *Store[S, M, E]) startSpan(op string) trace.Span {
	if st.tracer == nil {
		return nil
	}
	_, span := st.tracer.Start(context.Background(), op, trace.WithAttributes(
		attribute.String("store.name", st.name),
		attribute.String("store.id", st.id),
	))
	return span
}

func (st *Store[S, M, E]) endSpan(span trace.Span) {
	if span != nil {
		span.End()
	}
}
