package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/tracker/internal/form"
	"github.com/mesh-intelligence/tracker/internal/store"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// errNoProject is returned by AddMilestone before a project exists.
var errNoProject = fmt.Errorf("please create a project first: %w", types.ErrNotLoaded)

// DashboardScreen is the quick-entry page: create a project, then add dated
// milestones to it.
type DashboardScreen struct {
	deps    Deps
	Session *Session

	Projects *store.Store[types.Project]

	mu         sync.Mutex
	project    types.Project
	milestones *store.Store[types.Milestone]
}

// NewDashboardScreen visits the dashboard page.
func NewDashboardScreen(nav *Navigator, deps Deps) *DashboardScreen {
	deps = deps.withDefaults("dashboard")
	s := nav.Visit("dashboard")
	return &DashboardScreen{
		deps:     deps,
		Session:  s,
		Projects: store.NewProjects(deps.Client, store.WithScope(s), store.WithLogger(deps.Logger)),
	}
}

// Use selects an existing project as the target of AddMilestone.
func (s *DashboardScreen) Use(projectID int) error {
	if projectID <= 0 {
		return types.ErrInvalidID
	}
	s.setProject(types.Project{ID: projectID})
	return nil
}

// CreateProject posts d and makes the new project the target of
// AddMilestone.
func (s *DashboardScreen) CreateProject(ctx context.Context, d types.ProjectDraft) (types.Project, error) {
	if err := form.Validate(d); err != nil {
		return types.Project{}, s.deps.fail("create project", err)
	}
	p, err := s.Projects.Create(ctx, d)
	if err != nil {
		return types.Project{}, s.deps.fail("create project", err)
	}
	s.setProject(p)
	return p, nil
}

// Project returns the current target project.
func (s *DashboardScreen) Project() (types.Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project, s.project.ID != 0
}

// AddMilestone creates a dated milestone under the current project. Without
// a project it fails with types.ErrNotLoaded and sends nothing.
func (s *DashboardScreen) AddMilestone(ctx context.Context, d types.ProjectMilestoneDraft) (types.Milestone, error) {
	s.mu.Lock()
	ms := s.milestones
	s.mu.Unlock()
	if ms == nil {
		return types.Milestone{}, s.deps.fail("add milestone", errNoProject)
	}
	if err := form.Validate(d); err != nil {
		return types.Milestone{}, s.deps.fail("add milestone", err)
	}
	m, err := ms.Create(ctx, d)
	if err != nil {
		return types.Milestone{}, s.deps.fail("add milestone", err)
	}
	return m, nil
}

func (s *DashboardScreen) setProject(p types.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.project = p
	s.milestones = store.NewProjectMilestones(s.deps.Client, p.ID,
		store.WithScope(s.Session), store.WithLogger(s.deps.Logger))
}
