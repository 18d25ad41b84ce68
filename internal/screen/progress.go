package screen

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/tracker/internal/form"
	"github.com/mesh-intelligence/tracker/internal/store"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// StatusPending marks a criterion that has not been evaluated. The backend
// exposes no evaluation endpoint, so every criterion in a report is pending.
const StatusPending = "pending"

// CriterionStatus is one line of a progress report.
type CriterionStatus struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// ProgressReport is what a progress check produces for one repository.
type ProgressReport struct {
	ProjectID      int               `json:"project_id"`
	ProjectName    string            `json:"project_name"`
	MilestoneID    int               `json:"milestone_id"`
	MilestoneTitle string            `json:"milestone_title"`
	RepoURL        string            `json:"repo_url"`
	Criteria       []CriterionStatus `json:"criteria"`
}

// ProgressScreen picks a project, one of its milestones, and a repository
// URL, and reports the milestone's criteria for that repository.
type ProgressScreen struct {
	deps    Deps
	Session *Session

	Projects *store.Store[types.Project]

	mu         sync.Mutex
	draft      types.ProgressDraft
	milestones *store.Store[types.Milestone]
}

// NewProgressScreen visits the check-progress page.
func NewProgressScreen(nav *Navigator, deps Deps) *ProgressScreen {
	deps = deps.withDefaults("progress")
	s := nav.Visit("progress")
	return &ProgressScreen{
		deps:     deps,
		Session:  s,
		Projects: store.NewProjects(deps.Client, store.WithScope(s), store.WithLogger(deps.Logger)),
	}
}

// Load fetches the project list for the project picker.
func (s *ProgressScreen) Load(ctx context.Context) error {
	if err := s.Projects.Load(ctx); err != nil {
		return s.deps.loadFailed(err)
	}
	return nil
}

// SelectProject picks a project and loads its milestones. Any previously
// selected milestone is cleared.
func (s *ProgressScreen) SelectProject(ctx context.Context, projectID int) error {
	if projectID <= 0 {
		return types.ErrInvalidID
	}
	ms := store.NewProjectMilestones(s.deps.Client, projectID,
		store.WithScope(s.Session), store.WithLogger(s.deps.Logger))

	s.mu.Lock()
	s.draft.ProjectID = projectID
	s.draft.MilestoneID = 0
	s.milestones = ms
	s.mu.Unlock()

	if err := ms.Load(ctx); err != nil {
		return s.deps.fail("load milestones", err)
	}
	return nil
}

// Milestones returns the milestones of the selected project.
func (s *ProgressScreen) Milestones() []types.Milestone {
	s.mu.Lock()
	ms := s.milestones
	s.mu.Unlock()
	if ms == nil {
		return nil
	}
	return ms.Items()
}

// SelectMilestone picks one of the selected project's milestones.
func (s *ProgressScreen) SelectMilestone(milestoneID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.milestones == nil {
		return types.ErrNotLoaded
	}
	if _, ok := s.milestones.Get(milestoneID); !ok {
		return fmt.Errorf("milestone %d: %w", milestoneID, types.ErrNotFound)
	}
	s.draft.MilestoneID = milestoneID
	return nil
}

// SetRepoURL sets the repository to check.
func (s *ProgressScreen) SetRepoURL(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draft.RepoURL = url
}

// Draft returns the current selection.
func (s *ProgressScreen) Draft() types.ProgressDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Submit validates the selection, loads the milestone's criteria, and
// returns the report.
func (s *ProgressScreen) Submit(ctx context.Context) (ProgressReport, error) {
	s.mu.Lock()
	draft, ms := s.draft, s.milestones
	s.mu.Unlock()

	if err := form.Validate(draft); err != nil {
		return ProgressReport{}, s.deps.fail("check progress", err)
	}

	criteria := store.NewCriteria(s.deps.Client, draft.MilestoneID,
		store.WithScope(s.Session), store.WithLogger(s.deps.Logger))
	if err := criteria.Load(ctx); err != nil {
		return ProgressReport{}, s.deps.fail("check progress", err)
	}

	report := ProgressReport{
		ProjectID:   draft.ProjectID,
		MilestoneID: draft.MilestoneID,
		RepoURL:     draft.RepoURL,
		Criteria:    []CriterionStatus{},
	}
	if p, ok := s.Projects.Get(draft.ProjectID); ok {
		report.ProjectName = p.Name
	}
	if ms != nil {
		if m, ok := ms.Get(draft.MilestoneID); ok {
			report.MilestoneTitle = m.Title
		}
	}
	for _, c := range criteria.Items() {
		report.Criteria = append(report.Criteria, CriterionStatus{ID: c.ID, Title: c.Title, Status: StatusPending})
	}

	s.deps.Logger.Info("progress check",
		zap.Int("project_id", report.ProjectID),
		zap.Int("milestone_id", report.MilestoneID),
		zap.String("repo_url", report.RepoURL),
		zap.Int("criteria", len(report.Criteria)),
	)
	return report, nil
}
