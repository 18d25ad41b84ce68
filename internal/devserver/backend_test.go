package devserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func newTestBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend(nil)
	require.NoError(t, b.Attach(""))
	t.Cleanup(func() { _ = b.Detach() })
	return b
}

func TestAttachDetach(t *testing.T) {
	b := NewBackend(nil)
	dir := filepath.Join(t.TempDir(), "data")

	require.NoError(t, b.Attach(dir))
	assert.ErrorIs(t, b.Attach(dir), ErrAlreadyAttached)
	assert.FileExists(t, filepath.Join(dir, DatabaseFile))

	require.NoError(t, b.Detach())
	require.NoError(t, b.Detach(), "detach is idempotent")

	_, err := b.ListProjects(context.Background())
	assert.ErrorIs(t, err, ErrDetached)
}

func TestDataSurvivesReattach(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	b := NewBackend(nil)
	require.NoError(t, b.Attach(dir))
	_, err := b.CreateProject(ctx, types.ProjectDraft{Name: "Unit 4"})
	require.NoError(t, err)
	require.NoError(t, b.Detach())

	require.NoError(t, b.Attach(dir))
	defer b.Detach()
	ps, err := b.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "Unit 4", ps[0].Name)
}

func TestCreateProjectWithMilestoneDrafts(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	p, err := b.CreateProject(ctx, types.ProjectDraft{
		Name:        "Unit 4",
		Description: "Capstone",
		Milestones: []types.MilestoneDraft{
			{Title: "Design", Criteria: []string{"Has diagram", ""}},
			{Title: "Build"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Unit 4", p.Name)
	require.Len(t, p.Milestones, 2)
	assert.Equal(t, "Design", p.Milestones[0].Title)
	assert.Equal(t, "Build", p.Milestones[1].Title)
	require.Len(t, p.Milestones[0].Criteria, 1, "empty criterion titles are skipped")
	assert.Equal(t, "Has diagram", p.Milestones[0].Criteria[0].Title)
	assert.Equal(t, p.Milestones[0].ID, p.Milestones[0].Criteria[0].MilestoneID)

	list, err := b.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Milestones, "list view omits milestone detail")
}

func TestAttachDetachKeepsOrder(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	p, err := b.CreateProject(ctx, types.ProjectDraft{Name: "P"})
	require.NoError(t, err)
	var ids []int
	for _, title := range []string{"A", "B", "C"} {
		m, err := b.CreateMilestone(ctx, types.MilestoneDraft{Title: title})
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	for _, id := range ids {
		p, err = b.AttachMilestone(ctx, p.ID, id)
		require.NoError(t, err)
	}
	p, err = b.AttachMilestone(ctx, p.ID, ids[0])
	require.NoError(t, err)
	assert.Len(t, p.Milestones, 3, "attaching twice is a no-op")

	p, err = b.DetachMilestone(ctx, p.ID, ids[1])
	require.NoError(t, err)
	require.Len(t, p.Milestones, 2)
	assert.Equal(t, "A", p.Milestones[0].Title)
	assert.Equal(t, "C", p.Milestones[1].Title)

	p, err = b.AttachMilestone(ctx, p.ID, ids[1])
	require.NoError(t, err)
	assert.Equal(t, "B", p.Milestones[2].Title, "re-attached milestone goes last")

	_, err = b.GetMilestone(ctx, ids[1])
	assert.NoError(t, err, "detach never deletes the milestone")
}

func TestAttachUnknownIDs(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	p, err := b.CreateProject(ctx, types.ProjectDraft{Name: "P"})
	require.NoError(t, err)
	m, err := b.CreateMilestone(ctx, types.MilestoneDraft{Title: "M"})
	require.NoError(t, err)

	_, err = b.AttachMilestone(ctx, 999, m.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.AttachMilestone(ctx, p.ID, 999)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.DetachMilestone(ctx, p.ID, 999)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMilestoneShared(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	m, err := b.CreateMilestone(ctx, types.MilestoneDraft{Title: "Shared"})
	require.NoError(t, err)

	for _, name := range []string{"P1", "P2"} {
		p, err := b.CreateProject(ctx, types.ProjectDraft{Name: name})
		require.NoError(t, err)
		p, err = b.AttachMilestone(ctx, p.ID, m.ID)
		require.NoError(t, err)
		assert.True(t, p.HasMilestone(m.ID))
	}
}

func TestUpdateProject(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	p, err := b.CreateProject(ctx, types.ProjectDraft{Name: "Old", Description: "d"})
	require.NoError(t, err)

	got, err := b.UpdateProject(ctx, p.ID, types.ProjectDraft{
		Name:       "New",
		Milestones: []types.MilestoneDraft{{Title: "Added"}},
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "New", got.Name)
	assert.Empty(t, got.Description)
	require.Len(t, got.Milestones, 1)

	_, err = b.UpdateProject(ctx, 999, types.ProjectDraft{Name: "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestProjectMilestones(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	p, err := b.CreateProject(ctx, types.ProjectDraft{Name: "P"})
	require.NoError(t, err)

	m, err := b.AddProjectMilestone(ctx, p.ID, types.ProjectMilestoneDraft{Title: "Demo", DueDate: "2026-11-01"})
	require.NoError(t, err)
	assert.Equal(t, "2026-11-01", m.DueDate)

	ms, err := b.ProjectMilestones(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, m.ID, ms[0].ID)

	_, err = b.ProjectMilestones(ctx, 999)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.AddProjectMilestone(ctx, 999, types.ProjectMilestoneDraft{Title: "x", DueDate: "y"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestCriterionLifecycle(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	m, err := b.CreateMilestone(ctx, types.MilestoneDraft{Title: "M"})
	require.NoError(t, err)

	c, err := b.CreateCriterion(ctx, types.CriterionDraft{Title: "Uses tests", MilestoneID: m.ID})
	require.NoError(t, err)
	assert.Equal(t, m.ID, c.MilestoneID)

	renamed, err := b.UpdateCriterion(ctx, c.ID, types.CriterionTitle{Title: "Has tests"})
	require.NoError(t, err)
	assert.Equal(t, types.Criterion{ID: c.ID, Title: "Has tests", MilestoneID: m.ID}, renamed)

	cs, err := b.MilestoneCriteria(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []types.Criterion{renamed}, cs)

	require.NoError(t, b.DeleteCriterion(ctx, c.ID))
	assert.ErrorIs(t, b.DeleteCriterion(ctx, c.ID), types.ErrNotFound)

	cs, err = b.MilestoneCriteria(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, cs)

	_, err = b.CreateCriterion(ctx, types.CriterionDraft{Title: "x", MilestoneID: 999})
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = b.UpdateCriterion(ctx, 999, types.CriterionTitle{Title: "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestUpdateMilestoneKeepsCriteria(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)
	m, err := b.CreateMilestone(ctx, types.MilestoneDraft{Title: "M", Criteria: []string{"c1"}})
	require.NoError(t, err)

	got, err := b.UpdateMilestone(ctx, m.ID, types.MilestoneDraft{Title: "M2", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, "M2", got.Title)
	assert.Len(t, got.Criteria, 1)

	_, err = b.UpdateMilestone(ctx, 999, types.MilestoneDraft{Title: "x"})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestSeedAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	b := newTestBackend(t)

	a, err := b.SeedAdmin(ctx, "admin@example.com", "Ada", "s3cret")
	require.NoError(t, err)
	assert.Positive(t, a.ID)

	got, err := b.Authenticate(ctx, "admin@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, a, got)

	_, err = b.Authenticate(ctx, "admin@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = b.Authenticate(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrBadCredentials)

	again, err := b.SeedAdmin(ctx, "admin@example.com", "Ada L", "new")
	require.NoError(t, err)
	assert.Equal(t, a.ID, again.ID, "reseeding keeps the id")
	_, err = b.Authenticate(ctx, "admin@example.com", "new")
	assert.NoError(t, err)

	_, err = b.SeedAdmin(ctx, "", "x", "y")
	assert.ErrorIs(t, err, types.ErrValidation)
}
