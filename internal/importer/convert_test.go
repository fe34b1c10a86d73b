package importer

import (
	"testing"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_Full(t *testing.T) {
	plan, err := Convert(validFullSchema())
	require.NoError(t, err)

	require.NotNil(t, plan.Project)
	assert.Equal(t, "Tower", plan.Project.Name)
	assert.Equal(t, "2024-03-04", domain.FormatDate(plan.Project.StartDate))

	require.Len(t, plan.Trades, 1)
	assert.Equal(t, "#aa0000", plan.Trades[0].Color)

	require.Len(t, plan.Models, 1)
	steps := plan.Models[0].Steps
	require.Len(t, steps, 3)
	assert.Equal(t, 3, steps[0].DurationDays)
	assert.Equal(t, 2, steps[1].DurationDays, "defaults fill missing durations")
	assert.True(t, steps[1].Parallel)
	assert.False(t, steps[2].Parallel)
	assert.Equal(t, "Electrician", steps[1].Trade)

	require.Len(t, plan.Nodes, 4)
	building, stair, floor, unit := plan.Nodes[0], plan.Nodes[1], plan.Nodes[2], plan.Nodes[3]
	assert.Nil(t, building.ParentID)
	assert.Equal(t, plan.Project.ID, building.ProjectID)
	require.NotNil(t, stair.ParentID)
	assert.Equal(t, building.ID, *stair.ParentID)
	assert.Equal(t, floor.ID, *unit.ParentID)
	assert.Equal(t, domain.LevelUnit, unit.Level)
	assert.Equal(t, "2024-04-01", domain.FormatDate(floor.PlannedStart))

	assert.Equal(t, map[string]string{building.ID: "Apartment"}, plan.NodeModels)
}

func TestConvert_DefaultDurationIsOneDay(t *testing.T) {
	plan, err := Convert(validMinimalSchema())
	require.NoError(t, err)
	assert.Nil(t, plan.Project)
	assert.Equal(t, 1, plan.Models[0].Steps[0].DurationDays)
}
