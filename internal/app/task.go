package app

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/diff"
	"github.com/alexanderramin/taktplan/internal/domain"
)

// UpdateOutcome distinguishes a write that changed nothing from one that
// changed fields and was therefore audited.
type UpdateOutcome string

const (
	OutcomeApplied          UpdateOutcome = "applied"
	OutcomeAppliedAndLogged UpdateOutcome = "applied_and_logged"
)

// TaskUpdateRequest is a sparse patch of one task. Nil fields are left
// alone; the Clear* flags null the corresponding field.
type TaskUpdateRequest struct {
	TaskID       string
	StartPlanned *time.Time
	EndPlanned   *time.Time
	StartActual  *time.Time
	EndActual    *time.Time
	Status       *domain.TaskStatus
	AssigneeID   *string
	Description  *string

	ClearStartActual bool
	ClearEndActual   bool
	ClearAssignee    bool

	Actor string
}

type TaskUpdateResult struct {
	Task    *domain.Task
	Outcome UpdateOutcome
	Changes diff.Changes
}

// BulkUpdateRequest applies Patch to every task selected by Filter within
// the project. Filter.TaskIDs narrows to explicit tasks.
type BulkUpdateRequest struct {
	ProjectID string
	Filter    domain.TaskFilter
	Patch     domain.BulkPatch
	Actor     string
	Now       *time.Time
}

type BulkUpdateResult struct {
	Affected    int
	Action      string
	AffectedIDs []string
}

// CheckAnswerInput is one checklist response to record.
type CheckAnswerInput struct {
	QuestionID *string
	Label      string
	FieldType  domain.FieldType
	BoolValue  *bool
	TextValue  *string
	ImagePath  *string
}
