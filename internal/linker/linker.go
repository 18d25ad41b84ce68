// Package linker attaches and detaches shared milestones to and from one
// project. It never splices the milestone list itself: after every
// successful call the held project is replaced by the server's snapshot,
// which also carries the criteria of each attached milestone.
package linker

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tracker/internal/api"
	"github.com/mesh-intelligence/tracker/internal/store"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Linker holds one project and edits its milestone relationships.
type Linker struct {
	client store.Requester
	scope  store.Scope
	logger *zap.Logger

	mu       sync.Mutex
	project  types.Project
	loaded   bool
	inFlight map[int]bool
}

// Option configures a Linker.
type Option func(*Linker)

// WithScope ties the linker to a screen session.
func WithScope(s store.Scope) Option {
	return func(l *Linker) { l.scope = s }
}

// WithLogger sets the diagnostic logger.
func WithLogger(lg *zap.Logger) Option {
	return func(l *Linker) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// New creates a Linker with no project loaded.
func New(client store.Requester, opts ...Option) *Linker {
	l := &Linker{
		client:   client,
		logger:   zap.NewNop(),
		inFlight: make(map[int]bool),
	}
	for _, o := range opts {
		o(l)
	}
	l.logger = l.logger.With(zap.String("component", "linker"))
	return l
}

// Load fetches the project with nested milestones and holds it.
func (l *Linker) Load(ctx context.Context, projectID int) (types.Project, error) {
	if projectID <= 0 {
		return types.Project{}, types.ErrInvalidID
	}
	var p types.Project
	err := l.client.Do(ctx, http.MethodGet, api.ProjectPath(projectID), nil, &p)
	if !l.current() {
		return types.Project{}, fmt.Errorf("load project %d: %w", projectID, types.ErrStale)
	}
	if err != nil {
		l.logger.Error("load project failed", zap.Int("project_id", projectID), zap.Error(err))
		return types.Project{}, fmt.Errorf("load project %d: %w", projectID, err)
	}

	l.mu.Lock()
	l.project = p
	l.loaded = true
	l.mu.Unlock()
	return p, nil
}

// Project returns the held project.
func (l *Linker) Project() (types.Project, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.project, l.loaded
}

// Attach links an existing milestone to the held project.
func (l *Linker) Attach(ctx context.Context, milestoneID int) (types.Project, error) {
	return l.link(ctx, http.MethodPost, milestoneID)
}

// Detach unlinks a milestone from the held project. The milestone itself is
// not deleted.
func (l *Linker) Detach(ctx context.Context, milestoneID int) (types.Project, error) {
	return l.link(ctx, http.MethodDelete, milestoneID)
}

func (l *Linker) link(ctx context.Context, method string, milestoneID int) (types.Project, error) {
	if milestoneID <= 0 {
		return types.Project{}, types.ErrInvalidID
	}

	l.mu.Lock()
	if !l.loaded {
		l.mu.Unlock()
		return types.Project{}, types.ErrNotLoaded
	}
	if l.inFlight[milestoneID] {
		l.mu.Unlock()
		return types.Project{}, fmt.Errorf("milestone %d: %w", milestoneID, types.ErrBusy)
	}
	l.inFlight[milestoneID] = true
	projectID := l.project.ID
	l.mu.Unlock()

	defer func() {
		l.mu.Lock()
		delete(l.inFlight, milestoneID)
		l.mu.Unlock()
	}()

	var updated types.Project
	err := l.client.Do(ctx, method, api.ProjectMilestonePath(projectID, milestoneID), nil, &updated)
	if !l.current() {
		return types.Project{}, fmt.Errorf("%s milestone %d: %w", verb(method), milestoneID, types.ErrStale)
	}
	if err != nil {
		l.logger.Error("relationship change failed",
			zap.String("op", verb(method)),
			zap.Int("project_id", projectID),
			zap.Int("milestone_id", milestoneID),
			zap.Error(err),
		)
		return types.Project{}, fmt.Errorf("%s milestone %d: %w", verb(method), milestoneID, err)
	}

	l.mu.Lock()
	l.project = updated
	l.mu.Unlock()
	return updated, nil
}

func (l *Linker) current() bool {
	return l.scope == nil || l.scope.Current()
}

func verb(method string) string {
	if method == http.MethodDelete {
		return "detach"
	}
	return "attach"
}
