package domain

import (
	"fmt"
	"time"
)

// TaskFilter narrows a project's task set. Categories combine with AND;
// values within one category combine with OR. Empty categories match all.
type TaskFilter struct {
	TaskIDs        []string
	UnitIDs        []string
	Trades         []string
	Statuses       []TaskStatus
	From           *time.Time
	To             *time.Time
	Delayed        bool
	ActivityMatch  string
	Activities     []string
	UnitNames      []string
	FloorNames     []string
	StaircaseNames []string
	BuildingNames  []string
	ProcessModels  []string
}

// Validate rejects unknown statuses and inverted date ranges.
func (f TaskFilter) Validate() error {
	for _, s := range f.Statuses {
		if !ValidTaskStatuses[string(s)] {
			return fmt.Errorf("unknown status %q: %w", s, ErrValidation)
		}
	}
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return fmt.Errorf("filter range %s..%s: %w",
			f.From.Format(DateLayout), f.To.Format(DateLayout), ErrInvalidRange)
	}
	return nil
}
