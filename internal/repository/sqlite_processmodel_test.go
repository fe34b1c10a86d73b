package repository

import (
	"context"
	"testing"

	"github.com/alexanderramin/taktplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessModelRepo_GetWithSteps(t *testing.T) {
	tr := seedTree(t)
	ctx := context.Background()

	m, err := NewSQLiteProcessModelRepo(tr.db).GetWithSteps(ctx, tr.model.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apartment", m.Name)
	assert.Equal(t, []string{"Drywall installation", "Painting"}, m.Activities())
	require.NotNil(t, m.Steps[0].TradeID)
	assert.Equal(t, tr.trade.ID, *m.Steps[0].TradeID)
	assert.Equal(t, 3, m.Steps[0].DurationDays)
}

func TestProcessModelRepo_StepOrderUsesOrderThenSeq(t *testing.T) {
	tr := seedTree(t)
	repo := NewSQLiteProcessModelRepo(tr.db)
	ctx := context.Background()

	seq, err := repo.NextStepSeq(ctx, tr.model.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, seq)

	first := testutil.NewTestStep("Screed", 1, testutil.WithOrder(0))
	first.ModelID = tr.model.ID
	first.Seq = seq
	require.NoError(t, repo.CreateStep(ctx, &first))

	steps, err := repo.ListSteps(ctx, tr.model.ID)
	require.NoError(t, err)
	require.Len(t, steps, 3)
	assert.Equal(t, "Screed", steps[0].Activity)
	require.NotNil(t, steps[0].Order)
	assert.Equal(t, 0, *steps[0].Order)
}

func TestProcessModelRepo_UpdateAndDeleteStep(t *testing.T) {
	tr := seedTree(t)
	repo := NewSQLiteProcessModelRepo(tr.db)
	ctx := context.Background()

	step := tr.model.Steps[1]
	step.Parallel = true
	step.DurationDays = 4
	require.NoError(t, repo.UpdateStep(ctx, &step))

	steps, err := repo.ListSteps(ctx, tr.model.ID)
	require.NoError(t, err)
	assert.True(t, steps[1].Parallel)
	assert.Equal(t, 4, steps[1].DurationDays)

	require.NoError(t, repo.DeleteStep(ctx, step.ID))
	steps, err = repo.ListSteps(ctx, tr.model.ID)
	require.NoError(t, err)
	assert.Len(t, steps, 1)
}

func TestProcessModelRepo_GetByName(t *testing.T) {
	tr := seedTree(t)
	ctx := context.Background()
	repo := NewSQLiteProcessModelRepo(tr.db)

	m, err := repo.GetByName(ctx, "Apartment")
	require.NoError(t, err)
	assert.Equal(t, tr.model.ID, m.ID)

	_, err = repo.GetByName(ctx, "Office")
	assert.ErrorIs(t, err, ErrNotFound)
}
