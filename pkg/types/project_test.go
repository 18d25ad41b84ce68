package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectHasMilestone(t *testing.T) {
	p := Project{ID: 1, Milestones: []Milestone{{ID: 7}, {ID: 9}}}

	assert.True(t, p.HasMilestone(7))
	assert.True(t, p.HasMilestone(9))
	assert.False(t, p.HasMilestone(8))
	assert.False(t, Project{}.HasMilestone(7))
}

func TestEntityKeys(t *testing.T) {
	entities := []Entity{
		Project{ID: 3},
		Milestone{ID: 4},
		Criterion{ID: 5, MilestoneID: 4},
	}
	for i, e := range entities {
		assert.Equal(t, i+3, e.Key())
	}
}

func TestCriterionWireFormat(t *testing.T) {
	var c Criterion
	require.NoError(t, json.Unmarshal([]byte(`{"id":12,"title":"Uses tests","milestone_id":7}`), &c))
	assert.Equal(t, Criterion{ID: 12, Title: "Uses tests", MilestoneID: 7}, c)
}

func TestProjectListOmitsMilestones(t *testing.T) {
	out, err := json.Marshal(Project{ID: 1, Name: "Unit 4", Description: "Capstone"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Unit 4","description":"Capstone"}`, string(out))
}

func TestDraftFromCopiesOnlyEditableFields(t *testing.T) {
	p := Project{ID: 1, Name: "Unit 4", Description: "Capstone", Milestones: []Milestone{{ID: 7}}}
	d := ProjectDraftFrom(p)
	assert.Equal(t, ProjectDraft{Name: "Unit 4", Description: "Capstone"}, d)

	d.Name = "changed"
	assert.Equal(t, "Unit 4", p.Name, "draft must not alias the entity")

	m := Milestone{ID: 7, Title: "Week 1", Description: "Setup", Criteria: []Criterion{{ID: 1}}}
	assert.Equal(t, MilestoneDraft{Title: "Week 1", Description: "Setup"}, MilestoneDraftFrom(m))

	assert.Equal(t, CriterionTitle{Title: "Has tests"}, CriterionTitleFrom(Criterion{ID: 2, Title: "Has tests", MilestoneID: 7}))
}
