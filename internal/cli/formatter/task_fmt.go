package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// FormatTaskList renders tasks in schedule order as a table. today decides
// which tasks count as delayed.
func FormatTaskList(tasks []*domain.TaskDetail, today time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks match.")
	}
	rows := make([][]string, 0, len(tasks))
	delayed := 0
	for _, t := range tasks {
		late := t.IsDelayed(today)
		if late {
			delayed++
		}
		rows = append(rows, []string{
			TruncID(t.ID),
			t.Location(),
			t.Activity,
			derefOr(&t.TradeName, Dim("–")),
			DateRange(t.StartPlanned, t.EndPlanned),
			actualRange(t),
			TaskStatusPill(t.Status, late),
			derefOr(t.AssigneeID, Dim("–")),
		})
	}
	table := RenderTable([]string{"ID", "LOCATION", "ACTIVITY", "TRADE", "PLANNED", "ACTUAL", "STATUS", "ASSIGNEE"}, rows)
	summary := Plural(len(tasks), "task", "tasks")
	if delayed > 0 {
		summary += ", " + StyleRed.Render(fmt.Sprintf("%d delayed", delayed))
	}
	return table + Dim(summary)
}

func actualRange(t *domain.TaskDetail) string {
	if t.StartActual == nil && t.EndActual == nil {
		return Dim("–")
	}
	return ShortDate(t.StartActual) + Dim(" → ") + ShortDate(t.EndActual)
}

// FormatTask renders one task with its checklist answers.
func FormatTask(t *domain.TaskDetail, answers []*domain.TaskCheckAnswer, today time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n\n", Bold(t.Activity), TaskStatusPill(t.Status, t.IsDelayed(today))))

	field := func(label, value string) {
		b.WriteString(fmt.Sprintf("  %s  %s\n", Dim(fmt.Sprintf("%-9s", label)), value))
	}
	field("ID", t.ID)
	field("LOCATION", t.Location())
	if t.ProcessModelName != "" {
		field("MODEL", t.ProcessModelName)
	}
	if t.TradeName != "" {
		field("TRADE", t.TradeName)
	}
	field("PLANNED", DateRange(t.StartPlanned, t.EndPlanned))
	field("ACTUAL", actualRange(t))
	field("ASSIGNEE", derefOr(t.AssigneeID, Dim("–")))
	if t.Description != "" {
		field("NOTE", t.Description)
	}

	if len(answers) > 0 {
		b.WriteString("\n" + Header("Checklist") + "\n")
		b.WriteString(FormatCheckAnswers(answers))
	}
	return b.String()
}

// FormatCheckAnswers renders checklist answers as a table.
func FormatCheckAnswers(answers []*domain.TaskCheckAnswer) string {
	if len(answers) == 0 {
		return Dim("No checklist answers.")
	}
	rows := make([][]string, 0, len(answers))
	for _, a := range answers {
		rows = append(rows, []string{a.Label, string(a.FieldType), answerValue(a), a.CreatedAt.Format("2006-01-02 15:04")})
	}
	return RenderTable([]string{"LABEL", "TYPE", "VALUE", "RECORDED"}, rows)
}

func answerValue(a *domain.TaskCheckAnswer) string {
	switch a.FieldType {
	case domain.FieldBoolean:
		if a.BoolValue == nil {
			return Dim("–")
		}
		if *a.BoolValue {
			return StyleGreen.Render("yes")
		}
		return StyleRed.Render("no")
	case domain.FieldImage:
		return derefOr(a.ImagePath, Dim("–"))
	default:
		return derefOr(a.TextValue, Dim("–"))
	}
}
