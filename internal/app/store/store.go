package store

import (
	"sync"
)

// Store owns the application state. All mutations go through Dispatch.
type Store struct {
	mu          sync.RWMutex
	state       State
	nextID      int
	subscribers map[int]func(State)

	// notifyMu keeps subscriber notifications in dispatch order.
	notifyMu sync.Mutex
}

// New creates a store holding the initial state.
func New() *Store {
	return &Store{
		state:       InitialState(),
		subscribers: make(map[int]func(State)),
	}
}

// Dispatch reduces action into the state and notifies subscribers with the resulting state.
func (s *Store) Dispatch(action Action) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.state = Reduce(s.state, action)
	current := s.state
	subs := make([]func(State), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(current)
	}
}

// State returns a snapshot of the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn to be called after every dispatch. The returned func removes it.
// Subscribers must not dispatch synchronously.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}
