package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestDateValue_Resolve(t *testing.T) {
	planned := day("2024-03-04")

	got, ok := CopyFromPlanned().Resolve(planned)
	require.True(t, ok)
	assert.Equal(t, "2024-03-04", got.Format(DateLayout))

	_, ok = CopyFromPlanned().Resolve(nil)
	assert.False(t, ok, "nothing to copy")

	got, ok = Literal(*day("2024-05-01")).Resolve(planned)
	require.True(t, ok)
	assert.Equal(t, "2024-05-01", got.Format(DateLayout))
}

func TestBulkPatch_Action(t *testing.T) {
	cp := CopyFromPlanned()
	lit := Literal(*day("2024-03-04"))

	assert.Equal(t, "task.bulk.assign", BulkPatch{AssigneeID: ptr("u1")}.Action())
	assert.Equal(t, "task.bulk.mark_done", BulkPatch{
		StartActual: &cp, EndActual: &cp, Status: ptr(TaskDone),
	}.Action())
	assert.Equal(t, "task.bulk.update", BulkPatch{StartActual: &lit}.Action())
	assert.Equal(t, "task.bulk.update", BulkPatch{
		StartActual: &cp, EndActual: &cp, Status: ptr(TaskDone), AssigneeID: ptr("u1"),
	}.Action())
}

func TestBulkPatch_Empty(t *testing.T) {
	assert.True(t, BulkPatch{}.Empty())
	assert.False(t, BulkPatch{Status: ptr(TaskOpen)}.Empty())
}
