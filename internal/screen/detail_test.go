package screen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func TestDetailAttachDetach(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p, err := e.backend.CreateProject(ctx, types.ProjectDraft{Name: "Unit 4", Description: "Capstone"})
	require.NoError(t, err)
	m, err := e.backend.CreateMilestone(ctx, types.MilestoneDraft{Title: "Demo"})
	require.NoError(t, err)

	s := NewProjectDetailScreen(e.nav, e.deps())
	_, err = s.Load(ctx, p.ID)
	require.NoError(t, err)

	require.NoError(t, s.OpenPicker(ctx))
	require.Len(t, s.Unattached(), 1)

	attached, err := s.Attach(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, attached.HasMilestone(m.ID))
	assert.Empty(t, s.Unattached())

	detached, err := s.Detach(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, detached.HasMilestone(m.ID))
	held, _ := s.Linker.Project()
	assert.Equal(t, detached, held)
}

func TestDetailAttachUnknownMilestoneKeepsProject(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p, err := e.backend.CreateProject(ctx, types.ProjectDraft{Name: "P"})
	require.NoError(t, err)

	s := NewProjectDetailScreen(e.nav, e.deps())
	before, err := s.Load(ctx, p.ID)
	require.NoError(t, err)

	_, err = s.Attach(ctx, 999)
	assert.ErrorIs(t, err, types.ErrServer)
	held, _ := s.Linker.Project()
	assert.Equal(t, before, held)
	assert.Len(t, e.notifier.Alerts(), 1)
}

func TestDetailCreateAndAttachMilestone(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	p, err := e.backend.CreateProject(ctx, types.ProjectDraft{Name: "P"})
	require.NoError(t, err)

	s := NewProjectDetailScreen(e.nav, e.deps())
	_, err = s.Load(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, s.OpenPicker(ctx))

	require.NoError(t, s.OpenNewMilestone())
	require.NoError(t, s.NewMilestone.Edit(func(d *types.MilestoneDraft) { d.Title = "Fresh" }))
	got, err := s.SubmitNewMilestone(ctx)
	require.NoError(t, err)

	require.Len(t, got.Milestones, 1)
	assert.Equal(t, "Fresh", got.Milestones[0].Title)
	assert.Equal(t, 1, s.Available.Len(), "created milestone joins the picker")
	assert.False(t, s.NewMilestone.State().Open())
}

func TestDetailLoadUnknownProject(t *testing.T) {
	e := newEnv(t)
	s := NewProjectDetailScreen(e.nav, e.deps())

	_, err := s.Load(context.Background(), 42)
	assert.ErrorIs(t, err, types.ErrServer)
	_, err = s.Attach(context.Background(), 1)
	assert.ErrorIs(t, err, types.ErrNotLoaded)
}
