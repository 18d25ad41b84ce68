package screen

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/tracker/internal/form"
	"github.com/mesh-intelligence/tracker/internal/store"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// ProjectsScreen lists projects and hosts the create and edit dialogs.
type ProjectsScreen struct {
	deps    Deps
	Session *Session

	Projects *store.Store[types.Project]
	Create   *form.Dialog[types.ProjectDraft]
	Edit     *form.Dialog[types.ProjectDraft]
}

// NewProjectsScreen visits the projects page.
func NewProjectsScreen(nav *Navigator, deps Deps) *ProjectsScreen {
	deps = deps.withDefaults("projects")
	s := nav.Visit("projects")
	return &ProjectsScreen{
		deps:     deps,
		Session:  s,
		Projects: store.NewProjects(deps.Client, store.WithScope(s), store.WithLogger(deps.Logger)),
		Create:   form.NewDialog[types.ProjectDraft](),
		Edit:     form.NewDialog[types.ProjectDraft](),
	}
}

// Load fetches the project list. A failure raises the unavailable banner.
func (s *ProjectsScreen) Load(ctx context.Context) error {
	if err := s.Projects.Load(ctx); err != nil {
		return s.deps.loadFailed(err)
	}
	return nil
}

// OpenCreate opens an empty create dialog.
func (s *ProjectsScreen) OpenCreate() error {
	return s.Create.OpenCreate(types.ProjectDraft{})
}

// AddMilestoneDraft appends an empty milestone to the create dialog. The
// milestones are created together with the project.
func (s *ProjectsScreen) AddMilestoneDraft() error {
	return s.Create.Edit(func(d *types.ProjectDraft) {
		d.Milestones = append(d.Milestones, types.MilestoneDraft{})
	})
}

// SubmitCreate posts the create dialog's draft.
func (s *ProjectsScreen) SubmitCreate(ctx context.Context) (types.Project, error) {
	var created types.Project
	err := s.Create.Submit(ctx, form.Handlers[types.ProjectDraft]{
		Create: func(ctx context.Context, d types.ProjectDraft) error {
			p, err := s.Projects.Create(ctx, d)
			created = p
			return err
		},
	})
	if err != nil {
		return types.Project{}, s.deps.fail("create project", err)
	}
	return created, nil
}

// OpenEdit opens the edit dialog with a copy of a listed project.
func (s *ProjectsScreen) OpenEdit(id int) error {
	p, ok := s.Projects.Get(id)
	if !ok {
		return fmt.Errorf("project %d: %w", id, types.ErrNotFound)
	}
	return s.Edit.OpenEdit(id, types.ProjectDraftFrom(p))
}

// SubmitEdit puts the edit dialog's draft.
func (s *ProjectsScreen) SubmitEdit(ctx context.Context) (types.Project, error) {
	var updated types.Project
	err := s.Edit.Submit(ctx, form.Handlers[types.ProjectDraft]{
		Update: func(ctx context.Context, id int, d types.ProjectDraft) error {
			p, err := s.Projects.Update(ctx, id, d)
			updated = p
			return err
		},
	})
	if err != nil {
		return types.Project{}, s.deps.fail("update project", err)
	}
	return updated, nil
}
