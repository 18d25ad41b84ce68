package types

// Drafts hold the in-progress field values of an open create or edit dialog.
// They double as request payloads; only the required tag is validated.

// ProjectDraft is the create/edit payload for a project. Milestones are new
// milestone definitions created together with the project.
type ProjectDraft struct {
	Name        string           `json:"name" validate:"required"`
	Description string           `json:"description"`
	Milestones  []MilestoneDraft `json:"milestones,omitempty" validate:"dive"`
}

// MilestoneDraft is the create/edit payload for a milestone.
type MilestoneDraft struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Criteria    []string `json:"criteria,omitempty"`
}

// CriterionDraft is the create payload for a criterion.
type CriterionDraft struct {
	Title       string `json:"title" validate:"required"`
	MilestoneID int    `json:"milestone_id" validate:"required"`
}

// CriterionTitle is the update payload for a criterion; only the title is
// editable.
type CriterionTitle struct {
	Title string `json:"title" validate:"required"`
}

// ProjectMilestoneDraft creates a dated milestone directly under a project.
type ProjectMilestoneDraft struct {
	Title   string `json:"title" validate:"required"`
	DueDate string `json:"dueDate" validate:"required"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProgressDraft selects the project/milestone pair and repository to check.
type ProgressDraft struct {
	ProjectID   int    `json:"project_id" validate:"required"`
	MilestoneID int    `json:"milestone_id" validate:"required"`
	RepoURL     string `json:"repo_url" validate:"required"`
}

// ProjectDraftFrom copies the editable fields of p. Milestones are edited
// through attach/detach, not through the project form.
func ProjectDraftFrom(p Project) ProjectDraft {
	return ProjectDraft{Name: p.Name, Description: p.Description}
}

// MilestoneDraftFrom copies the editable fields of m.
func MilestoneDraftFrom(m Milestone) MilestoneDraft {
	return MilestoneDraft{Title: m.Title, Description: m.Description}
}

// CriterionTitleFrom copies the editable fields of c.
func CriterionTitleFrom(c Criterion) CriterionTitle {
	return CriterionTitle{Title: c.Title}
}
