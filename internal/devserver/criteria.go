package devserver

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

// MilestoneCriteria returns the criteria of one milestone in id order.
func (b *Backend) MilestoneCriteria(ctx context.Context, milestoneID int) ([]types.Criterion, error) {
	var cs []types.Criterion
	err := b.tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "milestones", "milestone_id", milestoneID); err != nil {
			return err
		}
		var err error
		cs, err = loadCriteria(ctx, tx, milestoneID)
		if cs == nil {
			cs = []types.Criterion{}
		}
		return err
	})
	return cs, err
}

// CreateCriterion adds a criterion to an existing milestone.
func (b *Backend) CreateCriterion(ctx context.Context, d types.CriterionDraft) (types.Criterion, error) {
	var c types.Criterion
	err := b.tx(ctx, func(tx *sql.Tx) error {
		if err := requireRow(ctx, tx, "milestones", "milestone_id", d.MilestoneID); err != nil {
			return err
		}
		id, err := insertCriterion(ctx, tx, d.MilestoneID, d.Title)
		if err != nil {
			return err
		}
		c, err = loadCriterion(ctx, tx, id)
		return err
	})
	return c, err
}

// UpdateCriterion renames a criterion. Its id and milestone never change.
func (b *Backend) UpdateCriterion(ctx context.Context, id int, d types.CriterionTitle) (types.Criterion, error) {
	var c types.Criterion
	err := b.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"UPDATE criteria SET title = ? WHERE criterion_id = ?", d.Title, id)
		if err != nil {
			return fmt.Errorf("update criterion: %w", err)
		}
		if err := requireAffected(res); err != nil {
			return err
		}
		c, err = loadCriterion(ctx, tx, id)
		return err
	})
	return c, err
}

// DeleteCriterion removes a criterion.
func (b *Backend) DeleteCriterion(ctx context.Context, id int) error {
	return b.tx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM criteria WHERE criterion_id = ?", id)
		if err != nil {
			return fmt.Errorf("delete criterion: %w", err)
		}
		return requireAffected(res)
	})
}

func insertCriterion(ctx context.Context, tx *sql.Tx, milestoneID int, title string) (int, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO criteria (milestone_id, title) VALUES (?, ?)", milestoneID, title)
	if err != nil {
		return 0, fmt.Errorf("insert criterion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("criterion id: %w", err)
	}
	return int(id), nil
}

func loadCriterion(ctx context.Context, tx *sql.Tx, id int) (types.Criterion, error) {
	var c types.Criterion
	err := tx.QueryRowContext(ctx,
		"SELECT criterion_id, title, milestone_id FROM criteria WHERE criterion_id = ?", id,
	).Scan(&c.ID, &c.Title, &c.MilestoneID)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Criterion{}, fmt.Errorf("criterion %d: %w", id, types.ErrNotFound)
	}
	if err != nil {
		return types.Criterion{}, fmt.Errorf("get criterion %d: %w", id, err)
	}
	return c, nil
}

func loadCriteria(ctx context.Context, tx *sql.Tx, milestoneID int) ([]types.Criterion, error) {
	rows, err := tx.QueryContext(ctx,
		"SELECT criterion_id, title, milestone_id FROM criteria WHERE milestone_id = ? ORDER BY criterion_id",
		milestoneID)
	if err != nil {
		return nil, fmt.Errorf("query criteria: %w", err)
	}
	defer rows.Close()
	var cs []types.Criterion
	for rows.Next() {
		var c types.Criterion
		if err := rows.Scan(&c.ID, &c.Title, &c.MilestoneID); err != nil {
			return nil, fmt.Errorf("scan criterion: %w", err)
		}
		cs = append(cs, c)
	}
	return cs, rows.Err()
}
