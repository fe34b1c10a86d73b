package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/alexanderramin/taktplan/internal/audit"
	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/repository"
	"github.com/alexanderramin/taktplan/internal/testutil"
	"github.com/stretchr/testify/require"
)

// testEnv wires every service to one in-memory database and a real audit log.
type testEnv struct {
	db        *sql.DB
	uow       db.UnitOfWork
	clock     *testutil.StubClock
	projects  *repository.SQLiteProjectRepo
	structure *repository.SQLiteStructureRepo
	models    *repository.SQLiteProcessModelRepo
	trades    *repository.SQLiteTradeRepo
	tasks     *repository.SQLiteTaskRepo
	answers   *repository.SQLiteCheckAnswerRepo
	auditRepo *repository.SQLiteAuditRepo
	audit     *audit.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	env := &testEnv{
		db:        database,
		uow:       testutil.NewTestUoW(database),
		clock:     testutil.FixedClock(),
		projects:  repository.NewSQLiteProjectRepo(database),
		structure: repository.NewSQLiteStructureRepo(database),
		models:    repository.NewSQLiteProcessModelRepo(database),
		trades:    repository.NewSQLiteTradeRepo(database),
		tasks:     repository.NewSQLiteTaskRepo(database),
		answers:   repository.NewSQLiteCheckAnswerRepo(database),
		auditRepo: repository.NewSQLiteAuditRepo(database),
	}
	env.audit = audit.NewLogger(env.auditRepo, nil)
	return env
}

func (e *testEnv) syncService(uow db.UnitOfWork) SyncService {
	if uow == nil {
		uow = e.uow
	}
	return NewSyncService(e.structure, e.models, uow, e.audit, e.clock)
}

func (e *testEnv) shiftService() ShiftService {
	return NewShiftService(e.uow, e.audit, e.clock)
}

func (e *testEnv) taskService() TaskService {
	return NewTaskService(e.tasks, e.answers, e.uow, e.audit, e.clock)
}

func (e *testEnv) structureService() StructureService {
	return NewStructureService(e.structure, e.models, e.uow, e.audit, e.clock)
}

func (e *testEnv) modelService() ModelService {
	return NewModelService(e.models, e.trades, e.uow, e.audit, e.clock)
}

func (e *testEnv) projectService() ProjectService {
	return NewProjectService(e.projects, e.uow, e.audit, e.clock)
}

// auditRecords returns the records whose action starts with prefix.
func (e *testEnv) auditRecords(t *testing.T, prefix string) []*domain.AuditRecord {
	t.Helper()
	recs, err := e.auditRepo.List(context.Background(), repository.AuditQuery{ActionPrefix: prefix})
	require.NoError(t, err)
	return recs
}

func decodeDetails(t *testing.T, rec *domain.AuditRecord) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(rec.Details), &out))
	return out
}

// site is a project with Building A > Staircase 1 > Floor 2 > Units 5 and 6.
type site struct {
	project   *domain.Project
	building  *domain.StructuralUnit
	staircase *domain.StructuralUnit
	floor     *domain.StructuralUnit
	unit5     *domain.StructuralUnit
	unit6     *domain.StructuralUnit
}

func (e *testEnv) seedSite(t *testing.T, projectOpts ...testutil.ProjectOption) *site {
	t.Helper()
	ctx := context.Background()
	s := &site{project: testutil.NewTestProject("Tower", projectOpts...)}
	require.NoError(t, e.projects.Create(ctx, s.project))

	s.building = testutil.NewTestNode(s.project.ID, domain.LevelBuilding, "Building A")
	s.staircase = testutil.NewTestNode(s.project.ID, domain.LevelStaircase, "Staircase 1", testutil.WithParent(s.building.ID))
	s.floor = testutil.NewTestNode(s.project.ID, domain.LevelFloor, "Floor 2", testutil.WithParent(s.staircase.ID))
	s.unit5 = testutil.NewTestNode(s.project.ID, domain.LevelUnit, "Unit 5", testutil.WithParent(s.floor.ID))
	s.unit6 = testutil.NewTestNode(s.project.ID, domain.LevelUnit, "Unit 6", testutil.WithParent(s.floor.ID))
	for _, n := range []*domain.StructuralUnit{s.building, s.staircase, s.floor, s.unit5, s.unit6} {
		require.NoError(t, e.structure.Create(ctx, n))
	}
	return s
}

func (e *testEnv) seedModel(t *testing.T, model *domain.ProcessModel) *domain.ProcessModel {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.models.Create(ctx, model))
	for i := range model.Steps {
		require.NoError(t, e.models.CreateStep(ctx, &model.Steps[i]))
	}
	return model
}

// assignModel sets the model id on node directly in storage.
func (e *testEnv) assignModel(t *testing.T, node *domain.StructuralUnit, modelID string) {
	t.Helper()
	node.ProcessModelID = &modelID
	require.NoError(t, e.structure.Update(context.Background(), node))
}

// tasksByStep loads the unit's tasks keyed by step id.
func (e *testEnv) tasksByStep(t *testing.T, unitID string) map[string]*domain.Task {
	t.Helper()
	tasks, err := e.tasks.ListByUnit(context.Background(), unitID)
	require.NoError(t, err)
	out := make(map[string]*domain.Task, len(tasks))
	for _, tk := range tasks {
		out[tk.StepID] = tk
	}
	return out
}

func fmtDate(t *time.Time) string {
	return domain.FormatDate(t)
}
