// Package screen composes the store, linker, and form controllers into one
// controller per page of the admin client. Every screen belongs to a
// Session; once the operator navigates away, responses that arrive for the
// old session are discarded instead of being applied.
package screen

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/tracker/internal/store"
)

// Session is one visit to one page.
type Session struct {
	ID    uuid.UUID
	Page  string
	ended atomic.Bool
}

var _ store.Scope = (*Session)(nil)

// Current reports whether the session is still the active one.
func (s *Session) Current() bool { return !s.ended.Load() }

// Navigator hands out sessions. Only the most recent one is current.
type Navigator struct {
	mu      sync.Mutex
	current *Session
	logger  *zap.Logger
}

// NewNavigator returns a navigator with no active session.
func NewNavigator(logger *zap.Logger) *Navigator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{logger: logger}
}

// Visit ends the current session, if any, and starts one for page.
func (n *Navigator) Visit(page string) *Session {
	s := &Session{ID: uuid.New(), Page: page}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil {
		n.current.ended.Store(true)
	}
	n.current = s
	n.logger.Debug("visit", zap.String("page", page), zap.String("session", s.ID.String()))
	return s
}

// Leave ends the current session without starting another.
func (n *Navigator) Leave() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil {
		n.current.ended.Store(true)
		n.current = nil
	}
}

// Current returns the active session, or nil.
func (n *Navigator) Current() *Session {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
