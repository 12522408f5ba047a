// Package dappsession holds the in-memory table of connected dApp
// sessions, keyed strictly by (window_label, origin) so a session
// granted to one browser window can never be looked up from another
// window sharing the same origin. Nothing here is ever persisted: the
// table is empty again on every process start.
//
// Grounded on the teacher's in-memory keyed-map bookkeeping pattern
// (internal/chainadapter/evm's NonceManager is the closest analogue in
// this codebase; the teacher's own internal/session package was NOT
// reused — see DESIGN.md — because it persists TTL-cached CLI unlock
// state to disk, which conflicts with "cleared on process exit").
package dappsession

import (
	"sync"
	"time"
)

// Key identifies a session: the spawning window's UUID label and the
// page origin connected within it.
type Key struct {
	WindowLabel string
	Origin      string
}

// Session is one connected dApp's state within a window.
type Session struct {
	WindowLabel  string
	Origin       string
	Accounts     []string
	AutoApproved bool
	CreatedAt    time.Time
	LastActivity time.Time
}

// Manager is the session table. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	sessions map[Key]*Session
}

// New creates an empty session manager.
func New() *Manager {
	return &Manager{sessions: make(map[Key]*Session)}
}

// CreateSession registers a new session, replacing any existing entry
// for the same (window_label, origin) pair.
func (m *Manager) CreateSession(windowLabel, origin string, accounts []string, autoApproved bool) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	s := &Session{
		WindowLabel:  windowLabel,
		Origin:       origin,
		Accounts:     append([]string(nil), accounts...),
		AutoApproved: autoApproved,
		CreatedAt:    now,
		LastActivity: now,
	}
	m.sessions[Key{WindowLabel: windowLabel, Origin: origin}] = s
	return s
}

// Get looks up the session for an exact (window_label, origin) pair.
// There is no origin-only fallback: a different window with the same
// origin returns ok=false.
func (m *Manager) Get(windowLabel, origin string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[Key{WindowLabel: windowLabel, Origin: origin}]
	return s, ok
}

// Touch updates a session's last-activity timestamp. No-op if the
// session doesn't exist.
func (m *Manager) Touch(windowLabel, origin string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[Key{WindowLabel: windowLabel, Origin: origin}]; ok {
		s.LastActivity = time.Now()
	}
}

// Remove deletes one session.
func (m *Manager) Remove(windowLabel, origin string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, Key{WindowLabel: windowLabel, Origin: origin})
}

// RemoveAllForWindow deletes every session belonging to windowLabel,
// called when a dApp window closes.
func (m *Manager) RemoveAllForWindow(windowLabel string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.sessions {
		if k.WindowLabel == windowLabel {
			delete(m.sessions, k)
		}
	}
}

// RemoveAllForOrigin deletes every session for origin, across all
// windows.
func (m *Manager) RemoveAllForOrigin(origin string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.sessions {
		if k.Origin == origin {
			delete(m.sessions, k)
		}
	}
}

// List returns every active session, in no particular order.
func (m *Manager) List() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}
