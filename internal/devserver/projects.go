package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// ListProjects returns every project in id order without milestone detail.
func (b *Backend) ListProjects(ctx context.Context) ([]types.Project, error) {
	projects := []types.Project{}
	err := b.tx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"SELECT project_id, name, description FROM projects ORDER BY project_id")
		if err != nil {
			return fmt.Errorf("query projects: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var p types.Project
			if err := rows.Scan(&p.ID, &p.Name, &p.Description); err != nil {
				return fmt.Errorf("scan project: %w", err)
			}
			projects = append(projects, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject returns one project with its milestones, in attach order, each
// carrying its criteria.
func (b *Backend) GetProject(ctx context.Context, id int) (types.Project, error) {
	var p types.Project
	err := b.tx(ctx, func(tx *sql.Tx) error {
		var err error
		p, err = loadProject(ctx, tx, id)
		return err
	})
	return p, err
}

// CreateProject inserts a project. Milestone drafts become new milestones
// attached to it in the order given.
func (b *Backend) CreateProject(ctx context.Context, d types.ProjectDraft) (types.Project, error) {
	var p types.Project
	err := b.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO projects (name, description) VALUES (?, ?)", d.Name, d.Description)
		if err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("project id: %w", err)
		}
		if err := attachDrafts(ctx, tx, int(id), d.Milestones); err != nil {
			return err
		}
		p, err = loadProject(ctx, tx, int(id))
		return err
	})
	return p, err
}

// UpdateProject replaces name and description. Milestone drafts are created
// and appended to the project's attached milestones.
func (b *Backend) UpdateProject(ctx context.Context, id int, d types.ProjectDraft) (types.Project, error) {
	var p types.Project
	err := b.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE projects SET name = ?, description = ? WHERE project_id = ?",
			d.Name, d.Description, id)
		if err != nil {
			return fmt.Errorf("update project: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		if err := attachDrafts(ctx, tx, id, d.Milestones); err != nil {
			return err
		}
		p, err = loadProject(ctx, tx, id)
		return err
	})
	return p, err
}

// ProjectMilestones returns the milestones attached to a project in attach
// order.
func (b *Backend) ProjectMilestones(ctx context.Context, projectID int) ([]types.Milestone, error) {
	var ms []types.Milestone
	err := b.tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "projects", "project_id", projectID); err != nil {
			return err
		}
		var err error
		ms, err = loadAttached(ctx, tx, projectID)
		return err
	})
	return ms, err
}

// AddProjectMilestone creates a dated milestone and attaches it to the
// project.
func (b *Backend) AddProjectMilestone(ctx context.Context, projectID int, d types.ProjectMilestoneDraft) (types.Milestone, error) {
	var m types.Milestone
	err := b.tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "projects", "project_id", projectID); err != nil {
			return err
		}
		mid, err := insertMilestone(ctx, tx, d.Title, "", d.DueDate, nil)
		if err != nil {
			return err
		}
		if err := attach(ctx, tx, projectID, mid); err != nil {
			return err
		}
		m, err = loadMilestone(ctx, tx, mid)
		return err
	})
	return m, err
}

// AttachMilestone links an existing milestone to a project and returns the
// updated project. Attaching twice is a no-op.
func (b *Backend) AttachMilestone(ctx context.Context, projectID, milestoneID int) (types.Project, error) {
	var p types.Project
	err := b.tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "projects", "project_id", projectID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, "milestones", "milestone_id", milestoneID); err != nil {
			return err
		}
		if err := attach(ctx, tx, projectID, milestoneID); err != nil {
			return err
		}
		var err error
		p, err = loadProject(ctx, tx, projectID)
		return err
	})
	return p, err
}

// DetachMilestone unlinks a milestone from a project and returns the updated
// project. The milestone itself survives.
func (b *Backend) DetachMilestone(ctx context.Context, projectID, milestoneID int) (types.Project, error) {
	var p types.Project
	err := b.tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "projects", "project_id", projectID); err != nil {
			return err
		}
		if err := requireRow(ctx, tx, "milestones", "milestone_id", milestoneID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM project_milestones WHERE project_id = ? AND milestone_id = ?",
			projectID, milestoneID); err != nil {
			return fmt.Errorf("detach milestone: %w", err)
		}
		var err error
		p, err = loadProject(ctx, tx, projectID)
		return err
	})
	return p, err
}

func loadProject(ctx context.Context, tx *sql.Tx, id int) (types.Project, error) {
	var p types.Project
	err := tx.QueryRowContext(ctx,
		"SELECT project_id, name, description FROM projects WHERE project_id = ?", id,
	).Scan(&p.ID, &p.Name, &p.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Project{}, fmt.Errorf("project %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return types.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	p.Milestones, err = loadAttached(ctx, tx, id)
	if err != nil {
		return types.Project{}, err
	}
	return p, nil
}

func loadAttached(ctx context.Context, tx *sql.Tx, projectID int) ([]types.Milestone, error) {
	rows, err := tx.QueryContext(ctx, `SELECT m.milestone_id, m.title, m.description, m.due_date
FROM project_milestones pm JOIN milestones m ON m.milestone_id = pm.milestone_id
WHERE pm.project_id = ? ORDER BY pm.position`, projectID)
	if err != nil {
		return nil, fmt.Errorf("query project milestones: %w", err)
	}
	ms, err := scanMilestones(rows)
	if err != nil {
		return nil, err
	}
	for i := range ms {
		if ms[i].Criteria, err = loadCriteria(ctx, tx, ms[i].ID); err != nil {
			return nil, err
		}
	}
	return ms, nil
}

func attachDrafts(ctx context.Context, tx *sql.Tx, projectID int, drafts []types.MilestoneDraft) error {
	for _, d := range drafts {
		mid, err := insertMilestone(ctx, tx, d.Title, d.Description, "", d.Criteria)
		if err != nil {
			return err
		}
		if err := attach(ctx, tx, projectID, mid); err != nil {
			return err
		}
	}
	return nil
}

func attach(ctx context.Context, tx *sql.Tx, projectID, milestoneID int) error {
	_, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO project_milestones (project_id, milestone_id, position)
SELECT ?, ?, COALESCE(MAX(position), 0) + 1 FROM project_milestones WHERE project_id = ?`,
		projectID, milestoneID, projectID)
	if err != nil {
		return fmt.Errorf("attach milestone: %w", err)
	}
	return nil
}

// requireRow returns ErrNotFound unless table holds a row with the given id.
// table and column are package constants, never user input.
func requireRow(ctx context.Context, tx *sql.Tx, table, column string, id int) error {
	var one int
	err := tx.QueryRowContext(ctx,
		fmt.Sprintf("SELECT 1 FROM %s WHERE %s = ?", table, column), id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", table, id, types.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("check %s %d: %w", table, id, err)
	}
	return nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
