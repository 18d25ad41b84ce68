// Package store keeps an ordered, in-memory collection of one entity type in
// step with the backend. Every mutation is pessimistic: the collection only
// changes after the server confirms, and it is patched from the server's
// response keyed by id.
package store

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tracker/internal/api"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Requester is the subset of *api.Client the store needs.
type Requester interface {
	Do(ctx context.Context, method, path string, body, out any) error
}

var _ Requester = (*api.Client)(nil)

// Scope reports whether the screen that owns a store is still current.
// Responses that arrive after their scope ended are discarded.
type Scope interface {
	Current() bool
}

// Endpoints locate a collection on the backend. Create defaults to List.
type Endpoints struct {
	List   string
	Create string
	Item   func(id int) string
}

// Store is a client-side cache of one backend collection.
type Store[T types.Entity] struct {
	name   string
	client Requester
	ep     Endpoints
	scope  Scope
	logger *zap.Logger

	mu          sync.RWMutex
	items       []T
	unavailable bool
	loaded      bool
}

// Option configures a Store.
type Option func(*options)

type options struct {
	scope  Scope
	logger *zap.Logger
}

// WithScope ties the store to a screen session.
func WithScope(s Scope) Option {
	return func(o *options) { o.scope = s }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New creates an empty store. name identifies the collection in logs.
func New[T types.Entity](name string, client Requester, ep Endpoints, opts ...Option) *Store[T] {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if ep.Create == "" {
		ep.Create = ep.List
	}
	return &Store[T]{
		name:   name,
		client: client,
		ep:     ep,
		scope:  o.scope,
		logger: o.logger.With(zap.String("store", name)),
	}
}

// Load replaces the collection with the server list. On failure the
// collection is left untouched and Unavailable reports true until the next
// successful load.
func (s *Store[T]) Load(ctx context.Context) error {
	var list []T
	err := s.client.Do(ctx, http.MethodGet, s.ep.List, nil, &list)
	if !s.current() {
		return s.stale("load")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.unavailable = true
		s.logger.Error("load failed", zap.Error(err))
		return fmt.Errorf("load %s: %w", s.name, err)
	}
	if list == nil {
		list = []T{}
	}
	s.items = list
	s.unavailable = false
	s.loaded = true
	return nil
}

// Create posts payload and appends the returned entity.
func (s *Store[T]) Create(ctx context.Context, payload any) (T, error) {
	var created T
	err := s.client.Do(ctx, http.MethodPost, s.ep.Create, payload, &created)
	if !s.current() {
		return created, s.stale("create")
	}
	if err != nil {
		s.logger.Error("create failed", zap.Error(err))
		return created, fmt.Errorf("create %s: %w", s.name, err)
	}

	s.mu.Lock()
	s.items = append(s.items, created)
	s.mu.Unlock()
	return created, nil
}

// Update puts payload and replaces the element with the same id in place.
// An id absent from the collection still reaches the server; on success the
// local collection is left as is.
func (s *Store[T]) Update(ctx context.Context, id int, payload any) (T, error) {
	var updated T
	if id <= 0 {
		return updated, types.ErrInvalidID
	}
	err := s.client.Do(ctx, http.MethodPut, s.ep.Item(id), payload, &updated)
	if !s.current() {
		return updated, s.stale("update")
	}
	if err != nil {
		s.logger.Error("update failed", zap.Int("id", id), zap.Error(err))
		return updated, fmt.Errorf("update %s %d: %w", s.name, id, err)
	}

	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.items[i] = updated
	}
	s.mu.Unlock()
	return updated, nil
}

// Remove deletes the entity on the server and then drops it locally.
// Removing an id that is not held is a local no-op.
func (s *Store[T]) Remove(ctx context.Context, id int) error {
	if id <= 0 {
		return types.ErrInvalidID
	}
	err := s.client.Do(ctx, http.MethodDelete, s.ep.Item(id), nil, nil)
	if !s.current() {
		return s.stale("remove")
	}
	if err != nil {
		s.logger.Error("remove failed", zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("remove %s %d: %w", s.name, id, err)
	}

	s.mu.Lock()
	if i := s.indexLocked(id); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	s.mu.Unlock()
	return nil
}

// Fetch reads one entity from the server without touching the collection.
func (s *Store[T]) Fetch(ctx context.Context, id int) (T, error) {
	var out T
	if id <= 0 {
		return out, types.ErrInvalidID
	}
	if err := s.client.Do(ctx, http.MethodGet, s.ep.Item(id), nil, &out); err != nil {
		s.logger.Error("fetch failed", zap.Int("id", id), zap.Error(err))
		return out, fmt.Errorf("fetch %s %d: %w", s.name, id, err)
	}
	if !s.current() {
		return out, s.stale("fetch")
	}
	return out, nil
}

// Items returns a copy of the collection in list order.
func (s *Store[T]) Items() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Get returns the held entity with the given id.
func (s *Store[T]) Get(id int) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexLocked(id); i >= 0 {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// Len returns the number of held entities.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Unavailable reports whether the last Load failed.
func (s *Store[T]) Unavailable() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unavailable
}

// Loaded reports whether a Load has succeeded at least once.
func (s *Store[T]) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

func (s *Store[T]) indexLocked(id int) int {
	for i, item := range s.items {
		if item.Key() == id {
			return i
		}
	}
	return -1
}

func (s *Store[T]) current() bool {
	return s.scope == nil || s.scope.Current()
}

func (s *Store[T]) stale(op string) error {
	s.logger.Debug("discarding stale response", zap.String("op", op))
	return fmt.Errorf("%s %s: %w", op, s.name, types.ErrStale)
}
