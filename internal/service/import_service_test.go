package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/importer"
	"github.com/alexanderramin/taktplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func siteImportSchema() *importer.ImportSchema {
	return &importer.ImportSchema{
		Project: &importer.ProjectImport{Name: "Tower", StartDate: strPtr("2024-03-04")},
		Trades:  []importer.TradeImport{{Name: "Drywall", Color: "#aa0000"}},
		Models: []importer.ModelImport{
			{Name: "Apartment", Steps: []importer.StepImport{
				{Activity: "Drywall", Trade: "Drywall", DurationDays: intPtr(3)},
				{Activity: "Painting", Trade: "Painter", DurationDays: intPtr(2)},
			}},
		},
		Structure: []importer.NodeImport{
			{Ref: "a", Level: "building", Name: "Building A", Model: strPtr("Apartment")},
			{Ref: "a1", ParentRef: strPtr("a"), Level: "staircase", Name: "Staircase 1"},
			{Ref: "f2", ParentRef: strPtr("a1"), Level: "floor", Name: "Floor 2"},
			{Ref: "u5", ParentRef: strPtr("f2"), Level: "unit", Name: "Unit 5"},
		},
	}
}

func TestImportSchema_ThenSync(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	res, err := NewImportService(env.uow, env.audit, env.clock).ImportSchema(ctx, siteImportSchema(), "anna")
	require.NoError(t, err)
	require.NotNil(t, res.Project)
	assert.Equal(t, 4, res.NodeCount)
	assert.Equal(t, 1, res.Trades)
	require.Len(t, res.Models, 1)

	trades, err := env.trades.List(ctx)
	require.NoError(t, err)
	assert.Len(t, trades, 2, "step trades are created on demand")

	synced, err := env.syncService(nil).Sync(ctx, app.SyncRequest{ProjectID: res.Project.ID})
	require.NoError(t, err)
	assert.Equal(t, 2, synced.Created)

	assert.Len(t, env.auditRecords(t, "import.apply"), 1)
}

func TestImportSchema_ModelFromDatabase(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	existing := env.seedModel(t, twoStepModel())

	schema := &importer.ImportSchema{
		Project:   &importer.ProjectImport{Name: "Annex"},
		Structure: []importer.NodeImport{{Ref: "b", Level: "building", Name: "Annex", Model: strPtr(existing.Name)}},
	}
	res, err := NewImportService(env.uow, env.audit, env.clock).ImportSchema(ctx, schema, "anna")
	require.NoError(t, err)

	nodes, err := env.structure.ListByProject(ctx, res.Project.ID)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.NotNil(t, nodes[0].ProcessModelID)
	assert.Equal(t, existing.ID, *nodes[0].ProcessModelID)
}

func TestImportSchema_ValidationFailure(t *testing.T) {
	env := newTestEnv(t)
	schema := siteImportSchema()
	schema.Structure[3].ParentRef = strPtr("a")

	_, err := NewImportService(env.uow, env.audit, env.clock).ImportSchema(context.Background(), schema, "anna")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "a unit must hang off a floor")

	recs := env.auditRecords(t, "import.apply")
	require.Len(t, recs, 1)
	assert.Equal(t, 400, recs[0].StatusCode)
}

func TestImportSchema_UnknownModelRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	schema := siteImportSchema()
	schema.Structure[0].Model = strPtr("Missing")

	_, err := NewImportService(env.uow, env.audit, env.clock).ImportSchema(ctx, schema, "anna")
	require.ErrorIs(t, err, domain.ErrNotFound)

	projects, err := env.projects.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
	models, err := env.models.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, models, "models of the failed import are rolled back too")
}

func TestImportSchema_RollbackOnWriteFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// Writes: #1 trade Drywall, #2 model, #3 step Drywall, #4 trade Painter, #5 step Painting, #6 project.
	failUoW := &testutil.FailOnNthExecUoW{DB: env.db, FailOn: 6, Err: errors.New("injected project insert failure")}
	_, err := NewImportService(failUoW, env.audit, env.clock).ImportSchema(ctx, siteImportSchema(), "anna")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected project insert failure")

	trades, err := env.trades.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, trades)
}

func TestImportFile_YAML(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "models.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
models:
  - name: Bathroom
    steps:
      - activity: Screed
        duration_days: 5
      - activity: Waterproofing
        duration_days: 2
        parallel: true
`), 0o600))

	res, err := NewImportService(env.uow, env.audit, env.clock).ImportFile(context.Background(), path, "anna")
	require.NoError(t, err)
	assert.Nil(t, res.Project)
	require.Len(t, res.Models, 1)
	assert.Equal(t, []string{"Screed", "Waterproofing"}, res.Models[0].Activities())
}
