package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// ListMilestones returns every milestone in id order without criteria.
func (b *Backend) ListMilestones(ctx context.Context) ([]types.Milestone, error) {
	var ms []types.Milestone
	err := b.tx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			"SELECT milestone_id, title, description, due_date FROM milestones ORDER BY milestone_id")
		if err != nil {
			return fmt.Errorf("query milestones: %w", err)
		}
		ms, err = scanMilestones(rows)
		return err
	})
	return ms, err
}

// GetMilestone returns one milestone with its criteria.
func (b *Backend) GetMilestone(ctx context.Context, id int) (types.Milestone, error) {
	var m types.Milestone
	err := b.tx(ctx, func(tx *sql.Tx) error {
		var err error
		m, err = loadMilestone(ctx, tx, id)
		return err
	})
	return m, err
}

// CreateMilestone inserts a milestone together with any criterion titles.
func (b *Backend) CreateMilestone(ctx context.Context, d types.MilestoneDraft) (types.Milestone, error) {
	var m types.Milestone
	err := b.tx(ctx, func(tx *sql.Tx) error {
		id, err := insertMilestone(ctx, tx, d.Title, d.Description, "", d.Criteria)
		if err != nil {
			return err
		}
		m, err = loadMilestone(ctx, tx, id)
		return err
	})
	return m, err
}

// UpdateMilestone replaces title and description. Criteria are managed
// through their own endpoints and are left alone.
func (b *Backend) UpdateMilestone(ctx context.Context, id int, d types.MilestoneDraft) (types.Milestone, error) {
	var m types.Milestone
	err := b.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE milestones SET title = ?, description = ? WHERE milestone_id = ?",
			d.Title, d.Description, id)
		if err != nil {
			return fmt.Errorf("update milestone: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		m, err = loadMilestone(ctx, tx, id)
		return err
	})
	return m, err
}

func insertMilestone(ctx context.Context, tx *sql.Tx, title, description, dueDate string, criteria []string) (int, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO milestones (title, description, due_date) VALUES (?, ?, ?)",
		title, description, dueDate)
	if err != nil {
		return 0, fmt.Errorf("insert milestone: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("milestone id: %w", err)
	}
	for _, c := range criteria {
		if c == "" {
			continue
		}
		if _, err := insertCriterion(ctx, tx, int(id), c); err != nil {
			return 0, err
		}
	}
	return int(id), nil
}

func loadMilestone(ctx context.Context, tx *sql.Tx, id int) (types.Milestone, error) {
	var m types.Milestone
	err := tx.QueryRowContext(ctx,
		"SELECT milestone_id, title, description, due_date FROM milestones WHERE milestone_id = ?", id,
	).Scan(&m.ID, &m.Title, &m.Description, &m.DueDate)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Milestone{}, fmt.Errorf("milestone %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return types.Milestone{}, fmt.Errorf("get milestone %d: %w", id, err)
	}
	if m.Criteria, err = loadCriteria(ctx, tx, id); err != nil {
		return types.Milestone{}, err
	}
	return m, nil
}

// scanMilestones drains and closes rows.
func scanMilestones(rows *sql.Rows) ([]types.Milestone, error) {
	defer rows.Close()
	ms := []types.Milestone{}
	for rows.Next() {
		var m types.Milestone
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.DueDate); err != nil {
			return nil, fmt.Errorf("scan milestone: %w", err)
		}
		ms = append(ms, m)
	}
	return ms, rows.Err()
}
