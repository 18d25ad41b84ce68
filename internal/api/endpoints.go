package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// Backend paths.
const (
	LoginPath      = "/api/admins/login"
	ProjectsPath   = "/api/projects"
	MilestonesPath = "/api/milestones"
	CriteriaPath   = "/api/criteria"
)

// ProjectPath is GET/PUT for one project.
func ProjectPath(id int) string { return fmt.Sprintf("%s/%d", ProjectsPath, id) }

// ProjectMilestonesPath lists (GET) or creates (POST) the milestones of a project.
func ProjectMilestonesPath(projectID int) string {
	return fmt.Sprintf("%s/%d/milestones", ProjectsPath, projectID)
}

// ProjectMilestonePath attaches (POST) or detaches (DELETE) a milestone.
func ProjectMilestonePath(projectID, milestoneID int) string {
	return fmt.Sprintf("%s/%d/milestones/%d", ProjectsPath, projectID, milestoneID)
}

// MilestonePath is PUT for one milestone.
func MilestonePath(id int) string { return fmt.Sprintf("%s/%d", MilestonesPath, id) }

// MilestoneCriteriaPath lists the criteria owned by a milestone.
func MilestoneCriteriaPath(milestoneID int) string {
	return fmt.Sprintf("%s/%d/criteria", MilestonesPath, milestoneID)
}

// CriterionPath is PUT/DELETE for one criterion.
func CriterionPath(id int) string { return fmt.Sprintf("%s/%d", CriteriaPath, id) }

// Login posts credentials and returns the admin record. A 401 surfaces as an
// *HTTPError with Status 401.
func (c *Client) Login(ctx context.Context, creds types.Credentials) (types.Admin, error) {
	var admin types.Admin
	if err := c.Do(ctx, http.MethodPost, LoginPath, creds, &admin); err != nil {
		return types.Admin{}, err
	}
	return admin, nil
}

// GetProject fetches one project with nested milestones and criteria.
func (c *Client) GetProject(ctx context.Context, id int) (types.Project, error) {
	var p types.Project
	if err := c.Do(ctx, http.MethodGet, ProjectPath(id), nil, &p); err != nil {
		return types.Project{}, err
	}
	return p, nil
}
