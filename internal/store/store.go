// Package store owns the application state and serialises dispatch.
package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/Mohsinsiddi/w3dash/internal/action"
	"github.com/Mohsinsiddi/w3dash/internal/state"
)

// Listener is called after every dispatch with the action and the resulting state.
type Listener func(a action.Action, s *state.RootState)

// Store holds the single RootState. All changes go through Dispatch.
type Store struct {
	mu        sync.Mutex
	state     *state.RootState
	listeners []subscription
	nextID    int

	logger *log.Logger
	trace  bool
}

type subscription struct {
	id int
	fn Listener
}

// Option configures a Store.
type Option func(*Store)

// WithState seeds the store with s instead of the initial state.
func WithState(s *state.RootState) Option {
	return func(st *Store) { st.state = s }
}

// WithLogger sets the logger used for dispatch logging.
func WithLogger(l *log.Logger) Option {
	return func(st *Store) { st.logger = l }
}

// WithTrace logs every dispatched action in its JSON form.
func WithTrace(on bool) Option {
	return func(st *Store) { st.trace = on }
}

// New creates a Store in the initial state.
func New(opts ...Option) *Store {
	st := &Store{}
	for _, o := range opts {
		o(st)
	}
	if st.state == nil {
		st.state = state.Initial()
	}
	if st.logger == nil {
		st.logger = log.Default()
	}
	return st
}

// State returns the current snapshot. Callers must not modify it.
func (st *Store) State() *state.RootState {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state
}

// Dispatch reduces a into the current state and notifies listeners in
// subscription order. Listeners run on the caller's goroutine without the
// store lock held, so they may dispatch.
func (st *Store) Dispatch(a action.Action) {
	st.mu.Lock()
	next := state.Reduce(st.state, a)
	st.state = next
	listeners := make([]subscription, len(st.listeners))
	copy(listeners, st.listeners)
	st.mu.Unlock()

	st.logDispatch(a, next)

	for _, l := range listeners {
		l.fn(a, next)
	}
}

func (st *Store) logDispatch(a action.Action, s *state.RootState) {
	if !st.trace {
		st.logger.Debug("dispatch", "action", a.Type)
		return
	}

	b, err := json.Marshal(a)
	if err != nil {
		st.logger.Warn("dispatch", "action", a.Type, "err", err)
		return
	}
	st.logger.Debug("dispatch", "action", string(b),
		"connected", state.IsConnected(s), "transfering", state.IsTransfering(s))
}

// Subscribe registers fn and returns a function that removes it.
func (st *Store) Subscribe(fn Listener) (unsubscribe func()) {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.listeners = append(st.listeners, subscription{id: id, fn: fn})
	st.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			st.mu.Lock()
			defer st.mu.Unlock()
			for i, l := range st.listeners {
				if l.id == id {
					st.listeners = append(st.listeners[:i:i], st.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Changes streams state snapshots until ctx is done. A slow reader only
// sees the latest snapshot; intermediate ones are dropped. Each send reads
// the store again, so a notification that arrives late after a nested
// dispatch never leaves an older snapshot as the last value.
func (st *Store) Changes(ctx context.Context) <-chan *state.RootState {
	ch := make(chan *state.RootState, 1)

	var mu sync.Mutex
	closed := false

	unsubscribe := st.Subscribe(func(action.Action, *state.RootState) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		s := st.State()
		select {
		case ch <- s:
		default:
			// Replace the pending snapshot with the newer one.
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	})

	go func() {
		<-ctx.Done()
		unsubscribe()
		mu.Lock()
		closed = true
		close(ch)
		mu.Unlock()
	}()

	return ch
}
