package store

import (
	"github.com/mesh-intelligence/tracker/internal/api"
	"github.com/mesh-intelligence/tracker/pkg/types"
)

// NewProjects returns the store behind the projects list.
func NewProjects(client Requester, opts ...Option) *Store[types.Project] {
	return New[types.Project]("projects", client, Endpoints{
		List: api.ProjectsPath,
		Item: api.ProjectPath,
	}, opts...)
}

// NewMilestones returns the store behind the milestones list.
func NewMilestones(client Requester, opts ...Option) *Store[types.Milestone] {
	return New[types.Milestone]("milestones", client, Endpoints{
		List: api.MilestonesPath,
		Item: api.MilestonePath,
	}, opts...)
}

// NewCriteria returns the store holding the criteria of one milestone.
// Criteria are created through the flat criteria endpoint.
func NewCriteria(client Requester, milestoneID int, opts ...Option) *Store[types.Criterion] {
	return New[types.Criterion]("criteria", client, Endpoints{
		List:   api.MilestoneCriteriaPath(milestoneID),
		Create: api.CriteriaPath,
		Item:   api.CriterionPath,
	}, opts...)
}

// NewProjectMilestones returns the store holding the milestones attached to
// one project. Create posts a dated milestone under the project.
func NewProjectMilestones(client Requester, projectID int, opts ...Option) *Store[types.Milestone] {
	return New[types.Milestone]("project milestones", client, Endpoints{
		List: api.ProjectMilestonesPath(projectID),
		Item: api.MilestonePath,
	}, opts...)
}
