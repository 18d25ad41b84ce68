package form

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/tracker/pkg/types"
)

func TestDialogLifecycle(t *testing.T) {
	d := NewDialog[types.MilestoneDraft]()
	assert.False(t, d.State().Open())
	assert.Equal(t, "closed", d.State().Mode.String())

	require.NoError(t, d.OpenCreate(types.MilestoneDraft{}))
	st := d.State()
	assert.Equal(t, ModeCreate, st.Mode)
	assert.Equal(t, 0, st.TargetID)

	require.NoError(t, d.Edit(func(m *types.MilestoneDraft) { m.Title = "Week 1" }))
	assert.Equal(t, "Week 1", d.State().Draft.Title)

	d.Cancel()
	assert.False(t, d.State().Open())
	assert.Equal(t, types.MilestoneDraft{}, d.State().Draft, "cancel discards the draft")
}

func TestEditWhileClosed(t *testing.T) {
	d := NewDialog[types.MilestoneDraft]()
	err := d.Edit(func(m *types.MilestoneDraft) { m.Title = "x" })
	assert.ErrorIs(t, err, types.ErrDialogClosed)
	assert.ErrorIs(t, d.Submit(context.Background(), Handlers[types.MilestoneDraft]{}), types.ErrDialogClosed)
}

func TestOpenEditRejectsInvalidID(t *testing.T) {
	d := NewDialog[types.MilestoneDraft]()
	assert.ErrorIs(t, d.OpenEdit(0, types.MilestoneDraft{}), types.ErrInvalidID)
	assert.False(t, d.State().Open())
}

func TestEditThenCancelLeavesEntityUnchanged(t *testing.T) {
	entity := types.Project{
		ID:          3,
		Name:        "Unit 4",
		Description: "Capstone",
		Milestones:  []types.Milestone{{ID: 7, Title: "Week 1", Criteria: []types.Criterion{{ID: 1, Title: "Uses tests", MilestoneID: 7}}}},
	}
	snapshot := entity
	snapshot.Milestones = append([]types.Milestone(nil), entity.Milestones...)

	d := NewDialog[types.ProjectDraft]()
	require.NoError(t, d.OpenEdit(entity.ID, types.ProjectDraftFrom(entity)))
	require.NoError(t, d.Edit(func(p *types.ProjectDraft) {
		p.Name = "changed"
		p.Description = ""
		p.Milestones = append(p.Milestones, types.MilestoneDraft{Title: "extra"})
	}))
	d.Cancel()

	assert.Equal(t, snapshot, entity)
}

func TestSubmitCreate(t *testing.T) {
	d := NewDialog[types.ProjectDraft]()
	require.NoError(t, d.OpenCreate(types.ProjectDraft{}))
	require.NoError(t, d.Edit(func(p *types.ProjectDraft) {
		p.Name = "Unit 4"
		p.Description = "Capstone"
	}))

	var got types.ProjectDraft
	err := d.Submit(context.Background(), Handlers[types.ProjectDraft]{
		Create: func(ctx context.Context, p types.ProjectDraft) error {
			got = p
			return nil
		},
		Update: func(ctx context.Context, id int, p types.ProjectDraft) error {
			t.Fatal("update must not run in create mode")
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, types.ProjectDraft{Name: "Unit 4", Description: "Capstone"}, got)
	assert.False(t, d.State().Open())
}

func TestSubmitEditUsesTarget(t *testing.T) {
	d := NewDialog[types.MilestoneDraft]()
	require.NoError(t, d.OpenEdit(7, types.MilestoneDraft{Title: "Week 1"}))

	var gotID int
	err := d.Submit(context.Background(), Handlers[types.MilestoneDraft]{
		Update: func(ctx context.Context, id int, m types.MilestoneDraft) error {
			gotID = id
			return nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, gotID)
	assert.False(t, d.State().Open())
}

func TestSubmitEmptyRequiredFieldIssuesNoCall(t *testing.T) {
	d := NewDialog[types.ProjectDraft]()
	require.NoError(t, d.OpenCreate(types.ProjectDraft{Description: "no name"}))

	called := false
	err := d.Submit(context.Background(), Handlers[types.ProjectDraft]{
		Create: func(ctx context.Context, p types.ProjectDraft) error {
			called = true
			return nil
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrValidation)
	assert.False(t, called)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"name": "this field is required"}, verr.Fields)

	st := d.State()
	assert.True(t, st.Open(), "validation failure keeps the dialog open")
	assert.Equal(t, "no name", st.Draft.Description)
}

func TestSubmitFailureKeepsDraft(t *testing.T) {
	d := NewDialog[types.MilestoneDraft]()
	require.NoError(t, d.OpenCreate(types.MilestoneDraft{Title: "Week 1", Description: "Setup"}))

	err := d.Submit(context.Background(), Handlers[types.MilestoneDraft]{
		Create: func(ctx context.Context, m types.MilestoneDraft) error { return types.ErrServer },
	})
	assert.ErrorIs(t, err, types.ErrServer)

	st := d.State()
	assert.True(t, st.Open())
	assert.False(t, st.Submitting)
	assert.Equal(t, types.MilestoneDraft{Title: "Week 1", Description: "Setup"}, st.Draft)

	// Retry succeeds with the retained draft.
	require.NoError(t, d.Submit(context.Background(), Handlers[types.MilestoneDraft]{
		Create: func(ctx context.Context, m types.MilestoneDraft) error { return nil },
	}))
	assert.False(t, d.State().Open())
}

func TestDoubleSubmitIsRejected(t *testing.T) {
	d := NewDialog[types.MilestoneDraft]()
	require.NoError(t, d.OpenCreate(types.MilestoneDraft{Title: "Week 1"}))

	entered := make(chan struct{})
	release := make(chan struct{})
	calls := 0
	h := Handlers[types.MilestoneDraft]{
		Create: func(ctx context.Context, m types.MilestoneDraft) error {
			calls++
			close(entered)
			<-release
			return nil
		},
	}

	done := make(chan error, 1)
	go func() { done <- d.Submit(context.Background(), h) }()
	<-entered

	assert.True(t, d.State().Submitting)
	assert.ErrorIs(t, d.Submit(context.Background(), h), types.ErrBusy)
	assert.ErrorIs(t, d.OpenCreate(types.MilestoneDraft{}), types.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, calls)
}

func TestCancelDuringSubmitStaysClosed(t *testing.T) {
	d := NewDialog[types.MilestoneDraft]()
	require.NoError(t, d.OpenCreate(types.MilestoneDraft{Title: "Week 1"}))

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- d.Submit(context.Background(), Handlers[types.MilestoneDraft]{
			Create: func(ctx context.Context, m types.MilestoneDraft) error {
				close(entered)
				<-release
				return types.ErrServer
			},
		})
	}()
	<-entered
	d.Cancel()
	close(release)

	assert.ErrorIs(t, <-done, types.ErrServer)
	assert.False(t, d.State().Open())
}

func TestValidateNestedMilestones(t *testing.T) {
	err := Validate(types.ProjectDraft{
		Name:       "Unit 4",
		Milestones: []types.MilestoneDraft{{Title: "ok"}, {Description: "missing title"}},
	})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{"milestones[1].title": "this field is required"}, verr.Fields)
	assert.Equal(t, "milestones[1].title: this field is required", verr.Error())
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name   string
		draft  any
		fields []string
	}{
		{name: "complete credentials", draft: types.Credentials{Email: "a@b.c", Password: "x"}},
		{name: "empty credentials", draft: types.Credentials{}, fields: []string{"email", "password"}},
		{name: "criterion without milestone", draft: types.CriterionDraft{Title: "Uses tests"}, fields: []string{"milestone_id"}},
		{name: "criterion title", draft: types.CriterionTitle{}, fields: []string{"title"}},
		{name: "dated milestone without date", draft: types.ProjectMilestoneDraft{Title: "Week 1"}, fields: []string{"dueDate"}},
		{name: "progress without repo", draft: types.ProgressDraft{ProjectID: 1, MilestoneID: 7}, fields: []string{"repo_url"}},
		{name: "description is optional", draft: types.MilestoneDraft{Title: "Week 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.draft)
			if len(tt.fields) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			got := make([]string, 0, len(verr.Fields))
			for k := range verr.Fields {
				got = append(got, k)
			}
			assert.ElementsMatch(t, tt.fields, got)
		})
	}
}
