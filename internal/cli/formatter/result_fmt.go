package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/diff"
)

// FormatSyncResult summarises a synchronizer run and lists rescheduled tasks.
func FormatSyncResult(r *app.SyncResult) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s created, %s updated, %s purged",
		StyleGreen.Render(fmt.Sprint(r.Created)),
		StyleYellow.Render(fmt.Sprint(r.Updated)),
		StyleRed.Render(fmt.Sprint(r.Purged))))
	if r.SkippedUnits > 0 {
		b.WriteString(Dim(fmt.Sprintf(" (%s skipped)", Plural(r.SkippedUnits, "unit", "units"))))
	}
	b.WriteString("\n")

	if len(r.Changes) == 0 {
		return b.String()
	}
	rows := make([][]string, 0, len(r.Changes))
	for _, c := range r.Changes {
		rows = append(rows, []string{c.Location, c.Task, dateChange(c.Start), dateChange(c.End)})
	}
	b.WriteString("\n" + RenderTable([]string{"LOCATION", "TASK", "START", "END"}, rows))
	return b.String()
}

func dateChange(c *app.DateChange) string {
	if c == nil {
		return Dim("=")
	}
	return Dim(derefOr(c.Old, "–")+" → ") + c.New
}

// FormatShiftResult summarises a window shift.
func FormatShiftResult(r *app.ShiftResult) string {
	if r.Moved == 0 {
		return Dim("No tasks overlap the window.") + "\n"
	}
	return fmt.Sprintf("Moved %s by %s\n",
		Bold(Plural(r.Moved, "task", "tasks")),
		StyleYellow.Render(Plural(r.DaysShifted, "day", "days")))
}

// FormatBulkResult summarises a bulk task update.
func FormatBulkResult(r *app.BulkUpdateResult) string {
	if r.Affected == 0 {
		return Dim(fmt.Sprintf("%s: no tasks changed.", r.Action)) + "\n"
	}
	return fmt.Sprintf("%s: %s\n", r.Action, Bold(Plural(r.Affected, "task", "tasks")+" updated"))
}

// FormatChanges renders a field diff, one line per changed field.
func FormatChanges(c diff.Changes) string {
	if c.Empty() {
		return Dim("No changes.") + "\n"
	}
	var b strings.Builder
	for _, field := range c.Fields() {
		ch := c[field]
		b.WriteString(fmt.Sprintf("  %s  %s %s %s\n",
			Dim(field),
			StyleRed.Render(changeValue(ch.Old)),
			Dim("→"),
			StyleGreen.Render(changeValue(ch.New))))
	}
	return b.String()
}

func changeValue(v any) string {
	if v == nil {
		return "∅"
	}
	if list, ok := v.([]any); ok {
		parts := make([]string, 0, len(list))
		for _, x := range list {
			parts = append(parts, fmt.Sprint(x))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return fmt.Sprint(v)
}
