package session

import (
	"sync"

	"github.com/wiblue/wiblue/internal/models"
)

// ActionType tags the closed set of session mutations.
type ActionType string

const (
	SetUsername     ActionType = "setUsername"
	SetID           ActionType = "setId"
	SetEmail        ActionType = "setEmail"
	SetToken        ActionType = "setToken"
	SetInterface    ActionType = "setInterface"
	SetTheme        ActionType = "setTheme"
	SetStatsNetwork ActionType = "setStatsNetwork"
	SetSeenNetworks ActionType = "setSeenNetworks"
)

// Action is one named session mutation. Exactly one of the value fields
// is consulted, selected by Type.
type Action struct {
	Type     ActionType
	Value    string
	Theme    Theme
	Networks []models.SeenNetwork
}

// Store owns the single in-memory Session. All mutation goes through
// Dispatch; readers take a Snapshot copy. The store is volatile: persistence
// of the token is the caller's concern.
type Store struct {
	mu      sync.Mutex
	session Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{session: Session{Theme: ThemeLight}}
}

// Dispatch applies one action. Each defined action updates exactly its
// target field; unrecognized types leave the session unchanged.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = reduce(s.session, a)
}

// reduce is the pure transition function over the session state.
func reduce(state Session, a Action) Session {
	switch a.Type {
	case SetUsername:
		state.Username = a.Value
	case SetID:
		state.UserID = a.Value
	case SetEmail:
		state.Email = a.Value
	case SetToken:
		state.Token = a.Value
	case SetInterface:
		state.Interface = a.Value
	case SetTheme:
		state.Theme = a.Theme
	case SetStatsNetwork:
		state.StatsNetwork = a.Value
	case SetSeenNetworks:
		state.SeenNetworks = a.Networks
	}
	return state
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session
}

// Reset clears the session back to its initial state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.session = Session{Theme: ThemeLight}
}
