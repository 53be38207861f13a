package state

import "sync"

// Listener observes every state change in dispatch order.
type Listener func(prev, next State)

// Store owns the state of one application session. Dispatches are applied
// one at a time; listeners run after each one, before the next dispatch
// starts. A listener may read State but must not Dispatch.
type Store struct {
	dispatchMu sync.Mutex

	mu        sync.RWMutex
	state     State
	listeners []listenerEntry
	nextID    int
}

type listenerEntry struct {
	id int
	fn Listener
}

func NewStore() *Store {
	return &Store{}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch reduces the action, reconciles its cross-entity effects and
// notifies listeners.
func (s *Store) Dispatch(action Action) {
	s.apply(func(prev State) State {
		return Reconcile(prev, Reduce(prev, action), action)
	})
}

// Reset discards the whole state, as at session end.
func (s *Store) Reset() {
	s.apply(func(State) State { return State{} })
}

func (s *Store) apply(fn func(State) State) {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.mu.Lock()
	prev := s.state
	next := fn(prev)
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l.fn)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev, next)
	}
}

// Subscribe registers a listener and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listenerEntry{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}
