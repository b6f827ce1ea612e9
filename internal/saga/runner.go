// Package saga runs the asynchronous flows triggered by request actions.
//
// Each watched action spawns its own task. Tasks are neither de-duplicated
// nor cancelled when a newer request of the same type arrives: both finish
// and the store keeps whichever result is dispatched last.
package saga

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/Mohsinsiddi/w3dash/internal/action"
	"github.com/Mohsinsiddi/w3dash/internal/state"
	"github.com/Mohsinsiddi/w3dash/internal/store"
)

// Store is the part of the store the sagas depend on.
type Store interface {
	Dispatch(a action.Action)
	State() *state.RootState
	Subscribe(fn store.Listener) (unsubscribe func())
}

// Handler handles one occurrence of a watched action.
type Handler func(ctx context.Context, t *Task, a action.Action)

// Task is the environment of one running handler.
type Task struct {
	ID   string
	Deps Deps
	Log  *log.Logger

	store Store
}

// Dispatch sends a to the store.
func (t *Task) Dispatch(a action.Action) { t.store.Dispatch(a) }

// State returns the current store snapshot.
func (t *Task) State() *state.RootState { return t.store.State() }

// guard runs fn and turns any error or panic into exactly one failure action.
func (t *Task) guard(failure func(string) action.Action, fn func() error) {
	var f *Failure
	defer func() {
		if r := recover(); r != nil {
			f = recovered(r)
		}
		if f == nil {
			return
		}
		t.logFailure(f)
		t.Dispatch(failure(f.Message))
	}()

	if err := fn(); err != nil {
		f = fail(KindUnknown, err)
	}
}

func (t *Task) logFailure(f *Failure) {
	switch f.Kind {
	case KindState, KindConfig:
		t.Log.Warn(f.Message, "kind", f.Kind)
	default:
		t.Log.Error(f.Message, "kind", f.Kind, "err", f.Err)
	}
}

// Runner dispatches watched actions to their handlers.
type Runner struct {
	store Store
	deps  Deps
	newID func() string

	mu          sync.Mutex
	handlers    map[action.Type][]Handler
	ctx         context.Context
	unsubscribe func()

	wg sync.WaitGroup
}

// Option configures a Runner.
type Option func(*Runner)

// WithIDFunc replaces the uuid task id generator.
func WithIDFunc(fn func() string) Option {
	return func(r *Runner) { r.newID = fn }
}

// New creates a Runner over st. Call TakeEvery then Start.
func New(st Store, deps Deps, opts ...Option) *Runner {
	r := &Runner{
		store:    st,
		deps:     deps,
		newID:    uuid.NewString,
		handlers: make(map[action.Type][]Handler),
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// TakeEvery runs h for every dispatched action of type t.
func (r *Runner) TakeEvery(t action.Type, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[t] = append(r.handlers[t], h)
}

// Start subscribes to the store. Tasks receive ctx.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.unsubscribe != nil {
		return
	}
	r.ctx = ctx
	r.unsubscribe = r.store.Subscribe(r.onAction)
}

// Stop unsubscribes from the store. Running tasks are not interrupted.
func (r *Runner) Stop() {
	r.mu.Lock()
	unsub := r.unsubscribe
	r.unsubscribe = nil
	r.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// Wait blocks until every spawned task has returned.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) onAction(a action.Action, _ *state.RootState) {
	r.mu.Lock()
	handlers := r.handlers[a.Type]
	ctx := r.ctx
	r.mu.Unlock()

	for _, h := range handlers {
		r.spawn(ctx, h, a)
	}
}

func (r *Runner) spawn(ctx context.Context, h Handler, a action.Action) {
	id := r.newID()
	t := &Task{
		ID:    id,
		Deps:  r.deps,
		Log:   r.deps.logger().With("task", id, "action", a.Type),
		store: r.store,
	}

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		t.Log.Debug("task started")
		h(ctx, t, a)
		t.Log.Debug("task finished")
	}()
}
