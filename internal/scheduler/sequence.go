package scheduler

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// PlannedSlot is the computed date range of one process step.
type PlannedSlot struct {
	Step  domain.ProcessStep
	Start time.Time
	End   time.Time
}

// PlanSteps lays out the model's steps from anchor. A sequential step moves
// the cursor to the day after its end; a parallel step leaves the cursor
// where it was, so the following step starts alongside it.
func PlanSteps(model *domain.ProcessModel, anchor time.Time) []PlannedSlot {
	steps := model.OrderedSteps()
	slots := make([]PlannedSlot, 0, len(steps))
	cursor := NextWorkday(anchor)
	for _, step := range steps {
		start := NextWorkday(cursor)
		end := AddWorkdays(start, step.EffectiveDuration())
		slots = append(slots, PlannedSlot{Step: step, Start: start, End: end})
		if !step.Parallel {
			cursor = end.AddDate(0, 0, 1)
		}
	}
	return slots
}
