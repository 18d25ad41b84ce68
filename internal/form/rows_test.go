package form

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func TestRowsAreIndependent(t *testing.T) {
	r := NewRows[types.CriterionTitle]()
	require.NoError(t, r.Begin(1, types.CriterionTitle{Title: "Uses tests"}))
	require.NoError(t, r.Begin(2, types.CriterionTitle{Title: "Has README"}))
	assert.ElementsMatch(t, []int{1, 2}, r.Open())

	require.NoError(t, r.Edit(1, func(c *types.CriterionTitle) { c.Title = "Has tests" }))
	r.Cancel(2)

	assert.True(t, r.Editing(1))
	assert.False(t, r.Editing(2))
	d, ok := r.Draft(1)
	require.True(t, ok)
	assert.Equal(t, "Has tests", d.Title)

	var gotID int
	var got types.CriterionTitle
	require.NoError(t, r.Submit(context.Background(), 1, func(ctx context.Context, id int, c types.CriterionTitle) error {
		gotID, got = id, c
		return nil
	}))
	assert.Equal(t, 1, gotID)
	assert.Equal(t, types.CriterionTitle{Title: "Has tests"}, got)
	assert.False(t, r.Editing(1))
	assert.Empty(t, r.Open())
}

func TestRowSubmitFailureKeepsRow(t *testing.T) {
	r := NewRows[types.CriterionTitle]()
	require.NoError(t, r.Begin(1, types.CriterionTitle{Title: "Has tests"}))
	require.NoError(t, r.Begin(2, types.CriterionTitle{Title: "Other"}))

	err := r.Submit(context.Background(), 1, func(ctx context.Context, id int, c types.CriterionTitle) error {
		return types.ErrTransport
	})
	assert.ErrorIs(t, err, types.ErrTransport)
	d, ok := r.Draft(1)
	require.True(t, ok)
	assert.Equal(t, "Has tests", d.Title)
	assert.True(t, r.Editing(2), "other rows are untouched")
}

func TestRowSubmitValidates(t *testing.T) {
	r := NewRows[types.CriterionTitle]()
	require.NoError(t, r.Begin(1, types.CriterionTitle{Title: "x"}))
	require.NoError(t, r.Edit(1, func(c *types.CriterionTitle) { c.Title = "" }))

	called := false
	err := r.Submit(context.Background(), 1, func(ctx context.Context, id int, c types.CriterionTitle) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.False(t, called)
	assert.True(t, r.Editing(1))
}

func TestRowClosedOperations(t *testing.T) {
	r := NewRows[types.CriterionTitle]()
	assert.ErrorIs(t, r.Begin(0, types.CriterionTitle{}), types.ErrInvalidID)
	assert.ErrorIs(t, r.Edit(5, func(c *types.CriterionTitle) {}), types.ErrDialogClosed)
	assert.ErrorIs(t, r.Submit(context.Background(), 5, nil), types.ErrDialogClosed)
	_, ok := r.Draft(5)
	assert.False(t, ok)
	r.Cancel(5)
}

func TestRowDoubleSubmitIsRejected(t *testing.T) {
	r := NewRows[types.CriterionTitle]()
	require.NoError(t, r.Begin(1, types.CriterionTitle{Title: "Has tests"}))

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- r.Submit(context.Background(), 1, func(ctx context.Context, id int, c types.CriterionTitle) error {
			close(entered)
			<-release
			return nil
		})
	}()
	<-entered

	assert.ErrorIs(t, r.Submit(context.Background(), 1, nil), types.ErrBusy)
	assert.ErrorIs(t, r.Begin(1, types.CriterionTitle{Title: "again"}), types.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, r.Editing(1))
}
