package domain

import (
	"sort"
	"time"
)

type ProcessModel struct {
	ID        string
	Name      string
	Steps     []ProcessStep
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProcessStep struct {
	ID           string
	ModelID      string
	Activity     string
	TradeID      *string
	DurationDays int
	Order        *int
	Seq          int
	Parallel     bool
}

// EffectiveDuration returns the step length in working days; unset or
// non-positive durations count as one day.
func (s ProcessStep) EffectiveDuration() int {
	if s.DurationDays <= 0 {
		return 1
	}
	return s.DurationDays
}

// SortKey is the explicit order index, falling back to the insertion sequence.
func (s ProcessStep) SortKey() int {
	return IntFromPtrWithDefault(s.Seq, s.Order)
}

// OrderedSteps returns a copy of the steps sorted by SortKey, ties broken by Seq.
func (m *ProcessModel) OrderedSteps() []ProcessStep {
	steps := make([]ProcessStep, len(m.Steps))
	copy(steps, m.Steps)
	sort.SliceStable(steps, func(i, j int) bool {
		ki, kj := steps[i].SortKey(), steps[j].SortKey()
		if ki != kj {
			return ki < kj
		}
		return steps[i].Seq < steps[j].Seq
	})
	return steps
}

// Activities lists the activity names in step order.
func (m *ProcessModel) Activities() []string {
	ordered := m.OrderedSteps()
	names := make([]string, 0, len(ordered))
	for _, s := range ordered {
		names = append(names, s.Activity)
	}
	return names
}
