package suite

import (
	"sort"
	"sync"
)

// Store holds the navigators of the connected clients.
type Store struct {
	initOnce   sync.Once
	mutex      sync.RWMutex
	navigators map[string]*Navigator
}

func (s *Store) init() {
	s.navigators = make(map[string]*Navigator)
}

// Add registers a navigator.
func (s *Store) Add(n *Navigator) {
	s.initOnce.Do(s.init)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.navigators[n.ID]; ok {
		return
	}
	s.navigators[n.ID] = n
	instrumentIncreaseNavigatorGauge()
}

// Remove unregisters a navigator.
func (s *Store) Remove(n *Navigator) {
	s.initOnce.Do(s.init)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.navigators[n.ID]; !ok {
		return
	}
	delete(s.navigators, n.ID)
	instrumentDecreaseNavigatorGauge()
}

// Get returns the navigator registered under the given id.
func (s *Store) Get(id string) (*Navigator, bool) {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	n, ok := s.navigators[id]
	return n, ok
}

// Count returns the number of registered navigators.
func (s *Store) Count() int {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return len(s.navigators)
}

// States returns a snapshot of every registered navigator, oldest first.
func (s *Store) States() []State {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	navigators := make([]*Navigator, 0, len(s.navigators))
	for _, n := range s.navigators {
		navigators = append(navigators, n)
	}
	s.mutex.RUnlock()

	states := make([]State, len(navigators))
	for i, n := range navigators {
		states[i] = n.State()
	}

	sort.Slice(states, func(i, j int) bool {
		if states[i].StartedAt.Equal(states[j].StartedAt) {
			return states[i].ID < states[j].ID
		}
		return states[i].StartedAt.Before(states[j].StartedAt)
	})
	return states
}
