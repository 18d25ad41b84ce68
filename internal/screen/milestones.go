package screen

import (
	"context"
	"fmt"
	"sync"

	"github.com/mesh-intelligence/tracker/internal/form"
	"github.com/mesh-intelligence/tracker/internal/store"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// MilestonesScreen lists milestones. Its edit dialog also manages the
// criteria of the milestone being edited.
type MilestonesScreen struct {
	deps    Deps
	Session *Session

	Milestones *store.Store[types.Milestone]
	Create     *form.Dialog[types.MilestoneDraft]
	Edit       *form.Dialog[types.MilestoneDraft]

	NewCriterion  *form.Dialog[types.CriterionTitle]
	CriterionRows *form.Rows[types.CriterionTitle]

	mu       sync.Mutex
	criteria *store.Store[types.Criterion]
}

// NewMilestonesScreen visits the milestones page.
func NewMilestonesScreen(nav *Navigator, deps Deps) *MilestonesScreen {
	deps = deps.withDefaults("milestones")
	s := nav.Visit("milestones")
	return &MilestonesScreen{
		deps:          deps,
		Session:       s,
		Milestones:    store.NewMilestones(deps.Client, store.WithScope(s), store.WithLogger(deps.Logger)),
		Create:        form.NewDialog[types.MilestoneDraft](),
		Edit:          form.NewDialog[types.MilestoneDraft](),
		NewCriterion:  form.NewDialog[types.CriterionTitle](),
		CriterionRows: form.NewRows[types.CriterionTitle](),
	}
}

// Load fetches the milestone list. A failure raises the unavailable banner.
func (s *MilestonesScreen) Load(ctx context.Context) error {
	if err := s.Milestones.Load(ctx); err != nil {
		return s.deps.loadFailed(err)
	}
	return nil
}

// OpenCreate opens an empty create dialog.
func (s *MilestonesScreen) OpenCreate() error {
	return s.Create.OpenCreate(types.MilestoneDraft{})
}

// SubmitCreate posts the create dialog's draft.
func (s *MilestonesScreen) SubmitCreate(ctx context.Context) (types.Milestone, error) {
	var created types.Milestone
	err := s.Create.Submit(ctx, form.Handlers[types.MilestoneDraft]{
		Create: func(ctx context.Context, d types.MilestoneDraft) error {
			m, err := s.Milestones.Create(ctx, d)
			created = m
			return err
		},
	})
	if err != nil {
		return types.Milestone{}, s.deps.fail("create milestone", err)
	}
	return created, nil
}

// OpenEdit opens the edit dialog for a listed milestone and loads its
// criteria. The dialog stays open when the criteria fail to load.
func (s *MilestonesScreen) OpenEdit(ctx context.Context, id int) error {
	m, ok := s.Milestones.Get(id)
	if !ok {
		return fmt.Errorf("milestone %d: %w", id, types.ErrNotFound)
	}
	if err := s.Edit.OpenEdit(id, types.MilestoneDraftFrom(m)); err != nil {
		return err
	}

	cs := store.NewCriteria(s.deps.Client, id, store.WithScope(s.Session), store.WithLogger(s.deps.Logger))
	s.mu.Lock()
	s.criteria = cs
	s.mu.Unlock()
	s.NewCriterion.Cancel()
	s.cancelRows()

	if err := cs.Load(ctx); err != nil {
		return s.deps.fail("load criteria", err)
	}
	return nil
}

// Criteria returns the criteria store of the milestone being edited, or nil
// when no edit dialog is open.
func (s *MilestonesScreen) Criteria() *store.Store[types.Criterion] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// SubmitEdit puts the edit dialog's draft. Criteria edits are submitted
// separately.
func (s *MilestonesScreen) SubmitEdit(ctx context.Context) (types.Milestone, error) {
	var updated types.Milestone
	err := s.Edit.Submit(ctx, form.Handlers[types.MilestoneDraft]{
		Update: func(ctx context.Context, id int, d types.MilestoneDraft) error {
			m, err := s.Milestones.Update(ctx, id, d)
			updated = m
			return err
		},
	})
	if err != nil {
		return types.Milestone{}, s.deps.fail("update milestone", err)
	}
	s.closeCriteria()
	return updated, nil
}

// CancelEdit closes the edit dialog and everything nested in it.
func (s *MilestonesScreen) CancelEdit() {
	s.Edit.Cancel()
	s.closeCriteria()
}

// OpenNewCriterion opens the new-criterion dialog inside the edit dialog.
func (s *MilestonesScreen) OpenNewCriterion() error {
	if s.Criteria() == nil {
		return types.ErrDialogClosed
	}
	return s.NewCriterion.OpenCreate(types.CriterionTitle{})
}

// SubmitNewCriterion posts the drafted criterion for the milestone being
// edited.
func (s *MilestonesScreen) SubmitNewCriterion(ctx context.Context) (types.Criterion, error) {
	cs := s.Criteria()
	milestoneID := s.Edit.State().TargetID
	if cs == nil || milestoneID == 0 {
		return types.Criterion{}, types.ErrDialogClosed
	}

	var created types.Criterion
	err := s.NewCriterion.Submit(ctx, form.Handlers[types.CriterionTitle]{
		Create: func(ctx context.Context, d types.CriterionTitle) error {
			c, err := cs.Create(ctx, types.CriterionDraft{Title: d.Title, MilestoneID: milestoneID})
			created = c
			return err
		},
	})
	if err != nil {
		return types.Criterion{}, s.deps.fail("create criterion", err)
	}
	return created, nil
}

// BeginCriterionEdit opens the inline editor of one criterion.
func (s *MilestonesScreen) BeginCriterionEdit(id int) error {
	cs := s.Criteria()
	if cs == nil {
		return types.ErrDialogClosed
	}
	c, ok := cs.Get(id)
	if !ok {
		return fmt.Errorf("criterion %d: %w", id, types.ErrNotFound)
	}
	return s.CriterionRows.Begin(id, types.CriterionTitleFrom(c))
}

// SubmitCriterion puts one row's draft. Other rows are unaffected.
func (s *MilestonesScreen) SubmitCriterion(ctx context.Context, id int) (types.Criterion, error) {
	cs := s.Criteria()
	if cs == nil {
		return types.Criterion{}, types.ErrDialogClosed
	}
	var updated types.Criterion
	err := s.CriterionRows.Submit(ctx, id, func(ctx context.Context, id int, d types.CriterionTitle) error {
		c, err := cs.Update(ctx, id, d)
		updated = c
		return err
	})
	if err != nil {
		return types.Criterion{}, s.deps.fail("update criterion", err)
	}
	return updated, nil
}

// DeleteCriterion removes a criterion of the milestone being edited.
func (s *MilestonesScreen) DeleteCriterion(ctx context.Context, id int) error {
	cs := s.Criteria()
	if cs == nil {
		return types.ErrDialogClosed
	}
	if err := cs.Remove(ctx, id); err != nil {
		return s.deps.fail("delete criterion", err)
	}
	s.CriterionRows.Cancel(id)
	return nil
}

func (s *MilestonesScreen) closeCriteria() {
	s.mu.Lock()
	s.criteria = nil
	s.mu.Unlock()
	s.NewCriterion.Cancel()
	s.cancelRows()
}

func (s *MilestonesScreen) cancelRows() {
	for _, id := range s.CriterionRows.Open() {
		s.CriterionRows.Cancel(id)
	}
}
