package domain

import "time"

type Task struct {
	ID           string
	ProjectID    string
	UnitID       string
	StepID       string
	StartPlanned *time.Time
	EndPlanned   *time.Time
	StartActual  *time.Time
	EndActual    *time.Time
	Status       TaskStatus
	AssigneeID   *string
	Description  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Started reports whether real-world work has begun. Started tasks are
// never rescheduled.
func (t *Task) Started() bool {
	return t.StartActual != nil
}

// HasPlannedRange reports whether both planned dates are set.
func (t *Task) HasPlannedRange() bool {
	return t.StartPlanned != nil && t.EndPlanned != nil
}

// Classify derives the progress state from the actual dates.
func (t *Task) Classify() TaskStatus {
	switch {
	case t.EndActual != nil:
		return TaskDone
	case t.StartActual != nil:
		return TaskInProgress
	default:
		return TaskOpen
	}
}

// IsDelayed reports whether the task overran its planned end relative to today.
func (t *Task) IsDelayed(today time.Time) bool {
	if t.EndPlanned == nil {
		return false
	}
	if t.EndActual == nil {
		return DateOf(*t.EndPlanned).Before(DateOf(today))
	}
	return DateOf(*t.EndActual).After(DateOf(*t.EndPlanned))
}

// Fields returns the diffable attributes of the task.
func (t *Task) Fields() map[string]any {
	return map[string]any{
		"start_planned": t.StartPlanned,
		"end_planned":   t.EndPlanned,
		"start_actual":  t.StartActual,
		"end_actual":    t.EndActual,
		"status":        t.Status,
		"assignee_id":   t.AssigneeID,
		"description":   t.Description,
	}
}

// TaskDetail is a task joined with its step, trade and location names.
type TaskDetail struct {
	Task
	Activity         string
	TradeName        string
	ProcessModelName string
	UnitName         string
	FloorName        string
	StaircaseName    string
	BuildingName     string
}

// Location renders the top-down structural path of the task's unit.
func (d *TaskDetail) Location() string {
	return JoinLocation(d.BuildingName, d.StaircaseName, d.FloorName, d.UnitName)
}

// JoinLocation joins non-empty path segments with " - ".
func JoinLocation(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " - "
		}
		out += p
	}
	return out
}
