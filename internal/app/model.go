package app

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/diff"
)

// StepInput describes one process step. ID keeps an existing step (and
// therefore its tasks) when replacing a model's steps; empty creates a new one.
type StepInput struct {
	ID           string
	Activity     string
	Trade        string
	DurationDays int
	Order        *int
	Parallel     bool
}

// ModelInput is the full definition of a process model.
type ModelInput struct {
	Name  string
	Steps []StepInput
}

type ModelUpdateResult struct {
	ModelID string
	Outcome UpdateOutcome
	Changes diff.Changes
	Created int
	Updated int
	Deleted int
}

// ProjectUpdateRequest is a sparse patch of a project.
type ProjectUpdateRequest struct {
	ID             string
	Name           *string
	StartDate      *time.Time
	ClearStartDate bool
	Actor          string
}
