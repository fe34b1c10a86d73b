package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedShiftTasks creates three unit-5 tasks: one overlapping the window
// [03-05, 03-08], one entirely before it and one without planned dates.
func seedShiftTasks(t *testing.T, env *testEnv) (*site, *domain.ProcessModel, []*domain.Task) {
	t.Helper()
	ctx := context.Background()
	s := env.seedSite(t)
	model := env.seedModel(t, testutil.NewTestModel("Apartment",
		testutil.NewTestStep("Drywall", 3),
		testutil.NewTestStep("Painting", 2),
		testutil.NewTestStep("Cleaning", 1),
	))

	overlapping := testutil.NewTestTask(s.project.ID, s.unit5.ID, model.Steps[0].ID,
		testutil.WithPlanned(testutil.Date("2024-03-01"), testutil.Date("2024-03-10")))
	before := testutil.NewTestTask(s.project.ID, s.unit5.ID, model.Steps[1].ID,
		testutil.WithPlanned(testutil.Date("2024-02-26"), testutil.Date("2024-03-04")))
	unplanned := testutil.NewTestTask(s.project.ID, s.unit5.ID, model.Steps[2].ID)
	tasks := []*domain.Task{overlapping, before, unplanned}
	for _, tk := range tasks {
		require.NoError(t, env.tasks.Create(ctx, tk))
	}
	return s, model, tasks
}

func TestShiftWindow_ShiftsOverlappingTasks(t *testing.T) {
	env := newTestEnv(t)
	s, _, tasks := seedShiftTasks(t, env)
	ctx := context.Background()

	res, err := env.shiftService().ShiftWindow(ctx, app.ShiftRequest{
		ProjectID:   s.project.ID,
		WindowStart: testutil.Date("2024-03-05"),
		WindowEnd:   testutil.Date("2024-03-08"),
		Actor:       "anna",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Moved)
	assert.Equal(t, 4, res.DaysShifted)
	assert.Equal(t, []string{tasks[0].ID}, res.MovedIDs)

	moved, err := env.tasks.GetByID(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", fmtDate(moved.StartPlanned))
	assert.Equal(t, "2024-03-14", fmtDate(moved.EndPlanned))

	untouched, err := env.tasks.GetByID(ctx, tasks[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-26", fmtDate(untouched.StartPlanned))

	recs := env.auditRecords(t, "task.schedule.shift_window")
	require.Len(t, recs, 1)
	details := decodeDetails(t, recs[0])
	assert.EqualValues(t, 1, details["moved"])
	assert.EqualValues(t, 4, details["days_shifted"])
	assert.Equal(t, "2024-03-05", details["start"])
	listed, ok := details["tasks"].([]any)
	require.True(t, ok)
	require.Len(t, listed, 1)
	entry := listed[0].(map[string]any)
	assert.Equal(t, "Drywall", entry["name"])
	assert.Equal(t, "Building A - Staircase 1 - Floor 2 - Unit 5", entry["location"])
}

func TestShiftWindow_SkipWeekendsSnapsToMonday(t *testing.T) {
	env := newTestEnv(t)
	s, _, tasks := seedShiftTasks(t, env)
	ctx := context.Background()

	// Two-day window: 03-01 + 2 = Sunday 03-03, 03-10 + 2 = Tuesday 03-12.
	_, err := env.shiftService().ShiftWindow(ctx, app.ShiftRequest{
		ProjectID:    s.project.ID,
		WindowStart:  testutil.Date("2024-03-09"),
		WindowEnd:    testutil.Date("2024-03-10"),
		SkipWeekends: true,
	})
	require.NoError(t, err)

	moved, err := env.tasks.GetByID(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", fmtDate(moved.StartPlanned))
	assert.Equal(t, "2024-03-12", fmtDate(moved.EndPlanned))
}

func TestShiftWindow_LeavesActualDatesAlone(t *testing.T) {
	env := newTestEnv(t)
	s, _, tasks := seedShiftTasks(t, env)
	ctx := context.Background()

	started := tasks[0]
	started.StartActual = testutil.DatePtr("2024-03-01")
	started.Status = domain.TaskInProgress
	require.NoError(t, env.tasks.Update(ctx, started))

	_, err := env.shiftService().ShiftWindow(ctx, app.ShiftRequest{
		ProjectID:   s.project.ID,
		WindowStart: testutil.Date("2024-03-05"),
		WindowEnd:   testutil.Date("2024-03-05"),
	})
	require.NoError(t, err)

	got, err := env.tasks.GetByID(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-02", fmtDate(got.StartPlanned))
	assert.Equal(t, "2024-03-01", fmtDate(got.StartActual))
}

func TestShiftWindow_RespectsFilter(t *testing.T) {
	env := newTestEnv(t)
	s, _, _ := seedShiftTasks(t, env)

	res, err := env.shiftService().ShiftWindow(context.Background(), app.ShiftRequest{
		ProjectID:   s.project.ID,
		Filter:      domain.TaskFilter{UnitNames: []string{"Unit 6"}},
		WindowStart: testutil.Date("2024-03-05"),
		WindowEnd:   testutil.Date("2024-03-08"),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Moved)
	assert.Empty(t, env.auditRecords(t, "task.schedule"), "nothing moved, nothing audited")
}

func TestShiftWindow_InvalidRange(t *testing.T) {
	env := newTestEnv(t)
	s, _, tasks := seedShiftTasks(t, env)
	ctx := context.Background()

	_, err := env.shiftService().ShiftWindow(ctx, app.ShiftRequest{
		ProjectID:   s.project.ID,
		WindowStart: testutil.Date("2024-03-08"),
		WindowEnd:   testutil.Date("2024-03-05"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidRange)

	got, err := env.tasks.GetByID(ctx, tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", fmtDate(got.StartPlanned))

	recs := env.auditRecords(t, "task.schedule.shift_window")
	require.Len(t, recs, 1)
	assert.False(t, recs[0].OK)
	assert.Equal(t, 400, recs[0].StatusCode)
}

func TestShiftWindow_UnknownProject(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.shiftService().ShiftWindow(context.Background(), app.ShiftRequest{
		ProjectID:   "missing",
		WindowStart: testutil.Date("2024-03-05"),
		WindowEnd:   testutil.Date("2024-03-08"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
