package scheduler

import (
	"testing"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanSteps_Sequential(t *testing.T) {
	model := &domain.ProcessModel{Steps: []domain.ProcessStep{
		{ID: "s1", Seq: 1, DurationDays: 3},
		{ID: "s2", Seq: 2, DurationDays: 2},
	}}

	slots := PlanSteps(model, date("2024-03-04"))
	require.Len(t, slots, 2)

	assert.Equal(t, date("2024-03-04"), slots[0].Start)
	assert.Equal(t, date("2024-03-06"), slots[0].End)
	assert.Equal(t, date("2024-03-07"), slots[1].Start)
	assert.Equal(t, date("2024-03-08"), slots[1].End)
}

func TestPlanSteps_ParallelKeepsCursor(t *testing.T) {
	model := &domain.ProcessModel{Steps: []domain.ProcessStep{
		{ID: "A", Seq: 1, DurationDays: 5},
		{ID: "B", Seq: 2, DurationDays: 2, Parallel: true},
		{ID: "C", Seq: 3, DurationDays: 1},
	}}

	slots := PlanSteps(model, date("2024-03-04"))
	require.Len(t, slots, 3)

	assert.Equal(t, date("2024-03-04"), slots[0].Start)
	assert.Equal(t, date("2024-03-08"), slots[0].End)
	assert.Equal(t, date("2024-03-11"), slots[1].Start, "B starts after A")
	assert.Equal(t, date("2024-03-12"), slots[1].End)
	assert.Equal(t, slots[1].Start, slots[2].Start, "C starts alongside B")
	assert.Equal(t, date("2024-03-11"), slots[2].End)
}

func TestPlanSteps_WeekendAnchorAndOrder(t *testing.T) {
	two := 2
	model := &domain.ProcessModel{Steps: []domain.ProcessStep{
		{ID: "late", Seq: 1, Order: &two},
		{ID: "early", Seq: 5, Order: nil, DurationDays: 0},
	}}
	// keys: late=2, early=5
	slots := PlanSteps(model, date("2024-03-02"))
	require.Len(t, slots, 2)
	assert.Equal(t, "late", slots[0].Step.ID)
	assert.Equal(t, date("2024-03-04"), slots[0].Start)
	assert.Equal(t, date("2024-03-05"), slots[1].Start)
	assert.Equal(t, slots[1].Start, slots[1].End, "zero duration counts as one day")
}

func TestPlanSteps_EmptyModel(t *testing.T) {
	assert.Empty(t, PlanSteps(&domain.ProcessModel{}, date("2024-03-04")))
}
