package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// tree is a project with one building > staircase > floor and two units
// plus a two-step model assigned at building level.
type tree struct {
	db        *sql.DB
	project   *domain.Project
	building  *domain.StructuralUnit
	staircase *domain.StructuralUnit
	floor     *domain.StructuralUnit
	unit1     *domain.StructuralUnit
	unit2     *domain.StructuralUnit
	trade     *domain.Trade
	model     *domain.ProcessModel
}

func seedTree(t *testing.T) *tree {
	t.Helper()
	db := testutil.NewTestDB(t)
	ctx := context.Background()

	tr := &tree{db: db}
	tr.project = testutil.NewTestProject("Tower", testutil.WithStartDate(testutil.Date("2024-03-04")))
	require.NoError(t, NewSQLiteProjectRepo(db).Create(ctx, tr.project))

	tr.trade = testutil.NewTestTrade("Drywall")
	require.NoError(t, NewSQLiteTradeRepo(db).Create(ctx, tr.trade))

	tr.model = testutil.NewTestModel("Apartment",
		testutil.NewTestStep("Drywall installation", 3, testutil.WithTrade(tr.trade.ID)),
		testutil.NewTestStep("Painting", 2),
	)
	models := NewSQLiteProcessModelRepo(db)
	require.NoError(t, models.Create(ctx, tr.model))
	for i := range tr.model.Steps {
		require.NoError(t, models.CreateStep(ctx, &tr.model.Steps[i]))
	}

	nodes := NewSQLiteStructureRepo(db)
	tr.building = testutil.NewTestNode(tr.project.ID, domain.LevelBuilding, "Building A",
		testutil.WithProcessModel(tr.model.ID))
	tr.staircase = testutil.NewTestNode(tr.project.ID, domain.LevelStaircase, "Staircase 1",
		testutil.WithParent(tr.building.ID))
	tr.floor = testutil.NewTestNode(tr.project.ID, domain.LevelFloor, "Floor 2",
		testutil.WithParent(tr.staircase.ID), testutil.WithPlannedStart(testutil.Date("2024-04-08")))
	tr.unit1 = testutil.NewTestNode(tr.project.ID, domain.LevelUnit, "Unit 5",
		testutil.WithParent(tr.floor.ID))
	tr.unit2 = testutil.NewTestNode(tr.project.ID, domain.LevelUnit, "Unit 6",
		testutil.WithParent(tr.floor.ID))
	for _, n := range []*domain.StructuralUnit{tr.building, tr.staircase, tr.floor, tr.unit1, tr.unit2} {
		require.NoError(t, nodes.Create(ctx, n))
	}
	return tr
}
