package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructureRepo_ListUnits(t *testing.T) {
	tr := seedTree(t)
	repo := NewSQLiteStructureRepo(tr.db)
	ctx := context.Background()

	all, err := repo.ListUnits(ctx, tr.project.ID, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Unit 5", all[0].Name)

	narrowed, err := repo.ListUnits(ctx, tr.project.ID, []string{tr.unit2.ID, tr.floor.ID})
	require.NoError(t, err)
	require.Len(t, narrowed, 1, "only unit-level ids are returned")
	assert.Equal(t, tr.unit2.ID, narrowed[0].ID)
}

func TestStructureRepo_PlannedStartRoundTrip(t *testing.T) {
	tr := seedTree(t)
	repo := NewSQLiteStructureRepo(tr.db)
	ctx := context.Background()

	floor, err := repo.GetByID(ctx, tr.floor.ID)
	require.NoError(t, err)
	require.NotNil(t, floor.PlannedStart)
	assert.Equal(t, "2024-04-08", floor.PlannedStart.Format(domain.DateLayout))

	unit, err := repo.GetByID(ctx, tr.unit1.ID)
	require.NoError(t, err)
	assert.Nil(t, unit.PlannedStart)
}

func TestStructureRepo_ListByProject_LevelOrder(t *testing.T) {
	tr := seedTree(t)
	nodes, err := NewSQLiteStructureRepo(tr.db).ListByProject(context.Background(), tr.project.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 5)
	assert.Equal(t, domain.LevelBuilding, nodes[0].Level)
	assert.Equal(t, domain.LevelUnit, nodes[4].Level)
}

func TestStructureRepo_SetProcessModelForDescendants(t *testing.T) {
	tr := seedTree(t)
	repo := NewSQLiteStructureRepo(tr.db)
	ctx := context.Background()

	n, err := repo.SetProcessModelForDescendants(ctx, tr.staircase.ID, &tr.model.ID, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, n, "floor and two units")

	u, err := repo.GetByID(ctx, tr.unit1.ID)
	require.NoError(t, err)
	require.NotNil(t, u.ProcessModelID)
	assert.Equal(t, tr.model.ID, *u.ProcessModelID)

	b, err := repo.GetByID(ctx, tr.building.ID)
	require.NoError(t, err)
	require.NotNil(t, b.ProcessModelID, "root itself is untouched")

	n, err = repo.SetProcessModelForDescendants(ctx, tr.staircase.ID, nil, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	u, err = repo.GetByID(ctx, tr.unit1.ID)
	require.NoError(t, err)
	assert.Nil(t, u.ProcessModelID)
}

func TestStructureRepo_DeleteCascadesToChildren(t *testing.T) {
	tr := seedTree(t)
	repo := NewSQLiteStructureRepo(tr.db)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, tr.floor.ID))
	_, err := repo.GetByID(ctx, tr.unit1.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStructureRepo_ModelDeleteClearsReference(t *testing.T) {
	tr := seedTree(t)
	ctx := context.Background()

	require.NoError(t, NewSQLiteProcessModelRepo(tr.db).Delete(ctx, tr.model.ID))
	b, err := NewSQLiteStructureRepo(tr.db).GetByID(ctx, tr.building.ID)
	require.NoError(t, err)
	assert.Nil(t, b.ProcessModelID)
}
