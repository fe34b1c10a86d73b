package formatter

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/diff"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func day(s string) *time.Time {
	d, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestRelativeDateFrom(t *testing.T) {
	now := time.Date(2024, 3, 4, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"today, earlier hour", time.Date(2024, 3, 4, 1, 0, 0, 0, time.UTC), "Today"},
		{"tomorrow", now.AddDate(0, 0, 1), "Tomorrow"},
		{"yesterday", now.AddDate(0, 0, -1), "Yesterday"},
		{"3 days future", now.AddDate(0, 0, 3), "In 3d"},
		{"3 days past", now.AddDate(0, 0, -3), "3d ago"},
		{"3 weeks future", now.AddDate(0, 0, 21), "In 3w"},
		{"3 months future", now.AddDate(0, 0, 90), "In 3mo"},
		{"2 weeks past", now.AddDate(0, 0, -14), "2w ago"},
		{"3 months past", now.AddDate(0, 0, -90), "3mo ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeDateFrom(tt.input, now))
		})
	}
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"NAME", "DAYS"},
		[][]string{{StyleGreen.Render("Drywall"), "3"}, {"Tiling", "12"}},
		1,
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME     DAYS", lines[0])
	assert.Equal(t, "Drywall     3", lines[2])
	assert.Equal(t, "Tiling     12", lines[3])
}

func TestFormatStructureTree(t *testing.T) {
	modelID := "model-apartment"
	unit := func(name string) *app.TreeNode {
		return &app.TreeNode{Node: &domain.StructuralUnit{Name: name, Level: domain.LevelUnit}}
	}
	roots := []*app.TreeNode{{
		Node: &domain.StructuralUnit{Name: "Building A", Level: domain.LevelBuilding, ProcessModelID: &modelID},
		Children: []*app.TreeNode{{
			Node: &domain.StructuralUnit{Name: "Staircase 1", Level: domain.LevelStaircase},
			Children: []*app.TreeNode{{
				Node:     &domain.StructuralUnit{Name: "Floor 2", Level: domain.LevelFloor, PlannedStart: day("2024-03-04")},
				Children: []*app.TreeNode{unit("Unit 5"), unit("Unit 6")},
			}},
		}},
	}}

	out := stripANSI(FormatStructureTree(roots, map[string]string{modelID: "Apartment"}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "Building A (building)")
	assert.Contains(t, lines[0], "[ Apartment ]")
	assert.True(t, strings.HasPrefix(lines[1], "└─ Staircase 1"))
	assert.Contains(t, lines[2], "Floor 2 (floor, from 2024-03-04)")
	assert.True(t, strings.HasPrefix(lines[3], "      ├─ Unit 5"))
	assert.True(t, strings.HasPrefix(lines[4], "      └─ Unit 6"))
}

func TestFormatTaskList_FlagsDelayed(t *testing.T) {
	today := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	tasks := []*domain.TaskDetail{
		{
			Task:         domain.Task{ID: "t1", Status: domain.TaskOpen, StartPlanned: day("2024-03-04"), EndPlanned: day("2024-03-06")},
			Activity:     "Drywall",
			BuildingName: "Building A",
			UnitName:     "Unit 5",
		},
		{
			Task:     domain.Task{ID: "t2", Status: domain.TaskOpen, StartPlanned: day("2024-03-12"), EndPlanned: day("2024-03-13")},
			Activity: "Painting",
		},
	}

	out := stripANSI(FormatTaskList(tasks, today))
	assert.Contains(t, out, "Building A - Unit 5")
	assert.Contains(t, out, "2024-03-04 → 2024-03-06")
	assert.Contains(t, out, "▲ Delayed")
	assert.Contains(t, out, "○ Open")
	assert.Contains(t, out, "2 tasks, 1 delayed")
}

func TestTotalDays(t *testing.T) {
	m := &domain.ProcessModel{Steps: []domain.ProcessStep{
		{Activity: "Screed", DurationDays: 5, Seq: 1},
		{Activity: "Electrics", DurationDays: 2, Seq: 2, Parallel: true},
		{Activity: "Plaster", DurationDays: 3, Seq: 3},
	}}
	// Screed 5 days, then Electrics and Plaster start together; Plaster ends last.
	assert.Equal(t, 8, TotalDays(m))
	assert.Equal(t, 0, TotalDays(&domain.ProcessModel{}))
}

func TestFormatChanges(t *testing.T) {
	out := stripANSI(FormatChanges(diff.Changes{
		"status":      {Old: "open", New: "done"},
		"assignee_id": {Old: nil, New: "crew-7"},
	}))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "  assignee_id  ∅ → crew-7", lines[0])
	assert.Equal(t, "  status  open → done", lines[1])

	assert.Contains(t, stripANSI(FormatChanges(nil)), "No changes.")
}

func TestFormatSyncResult(t *testing.T) {
	old := "2024-03-04"
	out := stripANSI(FormatSyncResult(&app.SyncResult{
		Created:      2,
		Updated:      1,
		SkippedUnits: 1,
		Changes: []app.TaskChange{{
			Location: "Building A - Unit 5",
			Task:     "Drywall",
			Start:    &app.DateChange{Old: &old, New: "2024-03-11"},
		}, {
			Location: "Building A - Unit 6",
			Task:     "Painting",
			Start:    &app.DateChange{New: "2024-03-07"},
		}},
	}))
	assert.Contains(t, out, "2 created, 1 updated, 0 purged (1 unit skipped)")
	assert.Contains(t, out, "2024-03-04 → 2024-03-11")
	assert.Contains(t, out, "– → 2024-03-07")
}
