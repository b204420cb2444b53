package dashboard

import "sync"

// Shared serializes access to a Session for hosts that serve several
// goroutines, such as the HTTP and GraphQL surfaces.
type Shared struct {
	mu      sync.Mutex
	session *Session
}

// NewShared wraps a session
func NewShared(s *Session) *Shared {
	return &Shared{session: s}
}

// Do runs fn with exclusive access to the session
func (sh *Shared) Do(fn func(*Session) error) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return fn(sh.session)
}

// Snapshot copies the session state under the lock
func (sh *Shared) Snapshot() Snapshot {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return sh.session.Snapshot()
}
