package app

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// ShiftRequest moves every filtered task overlapping [WindowStart,
// WindowEnd] by the window's inclusive length.
type ShiftRequest struct {
	ProjectID    string
	Filter       domain.TaskFilter
	WindowStart  time.Time
	WindowEnd    time.Time
	SkipWeekends bool
	Actor        string
	Now          *time.Time
}

type ShiftResult struct {
	Moved       int
	DaysShifted int
	MovedIDs    []string
}
