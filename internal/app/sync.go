package app

import "time"

// SyncRequest asks the synchronizer to (re)generate the tasks of a project.
type SyncRequest struct {
	ProjectID string
	// UnitIDs narrows the candidate units; empty means every unit.
	UnitIDs []string
	// StartOverrides maps unit id to an explicit anchor date (YYYY-MM-DD).
	StartOverrides map[string]string
	// PurgeUnitIDs lists units whose tasks are cleared, restricted to
	// candidates without an override.
	PurgeUnitIDs []string
	Actor        string
	Now          *time.Time
}

// DateChange is the before/after of one planned date. Old is nil for a
// newly created task.
type DateChange struct {
	Old *string `json:"old"`
	New string `json:"new"`
}

// TaskChange records one rescheduled task for the audit trail.
type TaskChange struct {
	TaskID   string      `json:"task_id"`
	Location string      `json:"location"`
	Task     string      `json:"task"`
	Start    *DateChange `json:"start,omitempty"`
	End      *DateChange `json:"end,omitempty"`
}

type SyncResult struct {
	Created       int
	Updated       int
	Purged        int
	SkippedUnits  int
	CreatedIDs    []string
	UpdatedIDs    []string
	PurgedUnitIDs []string
	Changes       []TaskChange
}
