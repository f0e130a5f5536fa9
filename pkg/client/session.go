package client

import "sync"

// AuthState is the session state machine:
// Unknown -> Authenticated | Unauthenticated, Authenticated <-> MustChangePassword,
// and any state -> Unauthenticated on logout or token rejection.
type AuthState int

const (
	StateUnknown AuthState = iota
	StateUnauthenticated
	StateAuthenticated
	StateMustChangePassword
)

func (s AuthState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateMustChangePassword:
		return "must-change-password"
	default:
		return "unknown"
	}
}

// Session is the single accessor and mutator of the bearer token. A token
// loaded from the store stays Unknown until the server confirms it.
type Session struct {
	mu       sync.RWMutex
	store    SessionStore
	token    string
	user     *User
	verified bool
}

func NewSession(store SessionStore) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	s := &Session{store: store}
	if data, err := store.Load(); err == nil && data != nil {
		s.token = data.Token
		s.user = data.User
	}
	return s
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.token == "":
		return StateUnauthenticated
	case !s.verified || s.user == nil:
		return StateUnknown
	case s.user.MustChangePassword:
		return StateMustChangePassword
	default:
		return StateAuthenticated
	}
}

// Set stores a server-issued session.
func (s *Session) Set(token string, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.verified = true
	return s.store.Save(&SessionData{Token: token, User: user})
}

// SetUser refreshes the cached user. It is a no-op without a token.
func (s *Session) SetUser(user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		return nil
	}
	s.user = user
	s.verified = true
	return s.store.Save(&SessionData{Token: s.token, User: user})
}

// Clear drops the session in memory first so no later call can attach the
// token even if the store fails.
func (s *Session) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.verified = false
	return s.store.Clear()
}
