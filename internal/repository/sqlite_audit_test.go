package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepo_AppendAndList(t *testing.T) {
	repo := NewSQLiteAuditRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

	records := []*domain.AuditRecord{
		{ID: "1", Actor: "alice", Action: "task.sync", OK: true, StatusCode: 200, Details: `{}`, CreatedAt: base},
		{ID: "2", Actor: "bob", Action: "structure.unit.update", OK: true, StatusCode: 200, Details: `{}`, CreatedAt: base.Add(time.Second)},
		{ID: "3", Actor: "alice", Action: "task.bulk.mark_done", OK: true, StatusCode: 200, Details: `{}`, CreatedAt: base.Add(2 * time.Second)},
	}
	for _, r := range records {
		require.NoError(t, repo.Append(ctx, r))
	}

	all, err := repo.List(ctx, AuditQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "3", all[0].ID, "newest first")

	tasks, err := repo.List(ctx, AuditQuery{ActionPrefix: "task."})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)

	limited, err := repo.List(ctx, AuditQuery{Actor: "alice", Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "task.bulk.mark_done", limited[0].Action)
}

func TestAuditRepo_PrefixIsLiteral(t *testing.T) {
	repo := NewSQLiteAuditRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, &domain.AuditRecord{ID: "1", Actor: "a", Action: "taskXsync", Details: `{}`, CreatedAt: time.Now()}))
	got, err := repo.List(ctx, AuditQuery{ActionPrefix: "task_"})
	require.NoError(t, err)
	assert.Empty(t, got)
}
