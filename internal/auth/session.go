package auth

import "sync"

// SessionStore holds the single live credential for the process. It starts
// empty; Set replaces any existing credential, Clear removes it. The store is
// injected wherever a credential is needed so tests can use a fresh instance.
type SessionStore struct {
	mu    sync.Mutex
	token string
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Set stores the credential, replacing any previous one.
func (s *SessionStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Get returns the current credential and whether one is present.
func (s *SessionStore) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, s.token != ""
}

// Clear removes the credential. Clearing an empty store is a no-op.
func (s *SessionStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}
