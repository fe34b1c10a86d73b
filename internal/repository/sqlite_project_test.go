package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/taktplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectRepo_CreateAndGet(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower", testutil.WithStartDate(testutil.Date("2024-03-04")))
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tower", got.Name)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2024-03-04", got.StartDate.Format(dateLayout))
}

func TestProjectRepo_GetMissing(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	_, err := repo.GetByID(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectRepo_UpdateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteProjectRepo(db)
	ctx := context.Background()

	p := testutil.NewTestProject("Tower")
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, repo.Create(ctx, testutil.NewTestProject("Annex")))

	p.Name = "Tower East"
	p.StartDate = testutil.DatePtr("2024-05-01")
	require.NoError(t, repo.Update(ctx, p))

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Tower East", got.Name)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestProjectRepo_DeleteMissing(t *testing.T) {
	repo := NewSQLiteProjectRepo(testutil.NewTestDB(t))
	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), ErrNotFound)
}
