package view

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// Store holds the current view state. Every Set replaces the previous state wholesale.
type Store struct {
	mu      sync.RWMutex
	current State
}

func NewStore() *Store {
	return &Store{
		current: Unauthenticated{},
	}
}

func (s *Store) Set(state State) {
	if state == nil {
		state = Unauthenticated{}
	}

	s.mu.Lock()
	previous := s.current
	s.current = state
	s.mu.Unlock()

	if previous.Name() != state.Name() {
		log.Debugf("view state: %s -> %s", previous.Name(), state.Name())
	}
}

func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
