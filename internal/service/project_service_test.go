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

func TestProjectCreateAndUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.projectService()

	p, err := svc.Create(ctx, "Tower", testutil.DatePtr("2024-03-04"), "anna")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-04", fmtDate(p.StartDate))

	name := "Tower West"
	updated, changes, err := svc.Update(ctx, app.ProjectUpdateRequest{
		ID:        p.ID,
		Name:      &name,
		StartDate: testutil.DatePtr("2024-03-04"),
		Actor:     "anna",
	})
	require.NoError(t, err)
	assert.Equal(t, "Tower West", updated.Name)
	assert.Equal(t, []string{"name"}, changes.Fields())

	recs := env.auditRecords(t, "project.update")
	require.Len(t, recs, 1)
	assert.Equal(t, map[string]any{"old": "Tower", "new": "Tower West"},
		decodeDetails(t, recs[0])["changes"].(map[string]any)["name"])

	_, changes, err = svc.Update(ctx, app.ProjectUpdateRequest{ID: p.ID, Name: &name})
	require.NoError(t, err)
	assert.True(t, changes.Empty())
	assert.Len(t, env.auditRecords(t, "project.update"), 1)
}

func TestProjectUpdate_ClearStartDate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.projectService()

	p, err := svc.Create(ctx, "Tower", testutil.DatePtr("2024-03-04"), "anna")
	require.NoError(t, err)

	updated, changes, err := svc.Update(ctx, app.ProjectUpdateRequest{ID: p.ID, ClearStartDate: true})
	require.NoError(t, err)
	assert.Nil(t, updated.StartDate)
	assert.Nil(t, changes["start_date"].New)
}

func TestProjectErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	svc := env.projectService()

	_, err := svc.Create(ctx, "  ", nil, "anna")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, _, err = svc.Update(ctx, app.ProjectUpdateRequest{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, "missing", "anna"), domain.ErrNotFound)

	failed := env.auditRecords(t, "project.")
	require.Len(t, failed, 3)
	for _, rec := range failed {
		assert.False(t, rec.OK)
	}
}

func TestProjectDelete_Cascades(t *testing.T) {
	env := newTestEnv(t)
	s := env.seedSite(t)
	ctx := context.Background()

	require.NoError(t, env.projectService().Delete(ctx, s.project.ID, "anna"))
	_, err := env.structure.GetByID(ctx, s.unit5.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	projects, err := env.projectService().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
