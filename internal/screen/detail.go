package screen

import (
	"context"

	"github.com/mesh-intelligence/tracker/internal/form"
	"github.com/mesh-intelligence/tracker/internal/linker"
	"github.com/mesh-intelligence/tracker/internal/store"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// ProjectDetailScreen shows one project and edits which milestones are
// attached to it.
type ProjectDetailScreen struct {
	deps    Deps
	Session *Session

	Linker *linker.Linker
	// Available backs the attach picker; it is loaded by OpenPicker.
	Available    *store.Store[types.Milestone]
	NewMilestone *form.Dialog[types.MilestoneDraft]

	// pending is a milestone created by SubmitNewMilestone whose attach
	// has not succeeded yet. Only touched from inside the dialog's submit.
	pending types.Milestone
}

// NewProjectDetailScreen visits the project detail page.
func NewProjectDetailScreen(nav *Navigator, deps Deps) *ProjectDetailScreen {
	deps = deps.withDefaults("project detail")
	s := nav.Visit("project detail")
	return &ProjectDetailScreen{
		deps:         deps,
		Session:      s,
		Linker:       linker.New(deps.Client, linker.WithScope(s), linker.WithLogger(deps.Logger)),
		Available:    store.NewMilestones(deps.Client, store.WithScope(s), store.WithLogger(deps.Logger)),
		NewMilestone: form.NewDialog[types.MilestoneDraft](),
	}
}

// Load fetches the project with its milestones and criteria.
func (s *ProjectDetailScreen) Load(ctx context.Context, projectID int) (types.Project, error) {
	p, err := s.Linker.Load(ctx, projectID)
	if err != nil {
		return types.Project{}, s.deps.fail("load project", err)
	}
	return p, nil
}

// OpenPicker loads every milestone for the attach picker.
func (s *ProjectDetailScreen) OpenPicker(ctx context.Context) error {
	if err := s.Available.Load(ctx); err != nil {
		return s.deps.loadFailed(err)
	}
	return nil
}

// Unattached returns the picker's milestones that the project lacks.
func (s *ProjectDetailScreen) Unattached() []types.Milestone {
	p, _ := s.Linker.Project()
	var out []types.Milestone
	for _, m := range s.Available.Items() {
		if !p.HasMilestone(m.ID) {
			out = append(out, m)
		}
	}
	return out
}

// Attach links an existing milestone to the project.
func (s *ProjectDetailScreen) Attach(ctx context.Context, milestoneID int) (types.Project, error) {
	p, err := s.Linker.Attach(ctx, milestoneID)
	if err != nil {
		return types.Project{}, s.deps.fail("attach milestone", err)
	}
	return p, nil
}

// Detach unlinks a milestone from the project.
func (s *ProjectDetailScreen) Detach(ctx context.Context, milestoneID int) (types.Project, error) {
	p, err := s.Linker.Detach(ctx, milestoneID)
	if err != nil {
		return types.Project{}, s.deps.fail("detach milestone", err)
	}
	return p, nil
}

// OpenNewMilestone opens the "create new milestone" tab of the picker.
func (s *ProjectDetailScreen) OpenNewMilestone() error {
	if err := s.NewMilestone.OpenCreate(types.MilestoneDraft{}); err != nil {
		return err
	}
	s.pending = types.Milestone{}
	return nil
}

// SubmitNewMilestone creates the drafted milestone and attaches it. If the
// create succeeds but the attach fails, the milestone stays in the picker
// and the dialog stays open; submitting again retries only the attach.
func (s *ProjectDetailScreen) SubmitNewMilestone(ctx context.Context) (types.Project, error) {
	var project types.Project
	err := s.NewMilestone.Submit(ctx, form.Handlers[types.MilestoneDraft]{
		Create: func(ctx context.Context, d types.MilestoneDraft) error {
			if s.pending.ID == 0 {
				m, err := s.Available.Create(ctx, d)
				if err != nil {
					return err
				}
				s.pending = m
			}
			p, err := s.Linker.Attach(ctx, s.pending.ID)
			if err != nil {
				return err
			}
			project = p
			s.pending = types.Milestone{}
			return nil
		},
	})
	if err != nil {
		return types.Project{}, s.deps.fail("create milestone", err)
	}
	return project, nil
}
