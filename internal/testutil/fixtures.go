package testutil

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/google/uuid"
)

// Date parses a YYYY-MM-DD literal and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse(domain.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// DatePtr is Date returning a pointer.
func DatePtr(s string) *time.Time {
	t := Date(s)
	return &t
}

// Project options
type ProjectOption func(*domain.Project)

func WithStartDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.StartDate = &d
	}
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Structural node options
type NodeOption func(*domain.StructuralUnit)

func WithParent(id string) NodeOption {
	return func(n *domain.StructuralUnit) {
		n.ParentID = &id
	}
}

func WithPlannedStart(d time.Time) NodeOption {
	return func(n *domain.StructuralUnit) {
		n.PlannedStart = &d
	}
}

func WithProcessModel(id string) NodeOption {
	return func(n *domain.StructuralUnit) {
		n.ProcessModelID = &id
	}
}

func NewTestNode(projectID string, level domain.Level, name string, opts ...NodeOption) *domain.StructuralUnit {
	now := time.Now().UTC()
	n := &domain.StructuralUnit{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Level:     level,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Process model options
type StepOption func(*domain.ProcessStep)

func WithParallel() StepOption {
	return func(s *domain.ProcessStep) {
		s.Parallel = true
	}
}

func WithOrder(o int) StepOption {
	return func(s *domain.ProcessStep) {
		s.Order = &o
	}
}

func WithTrade(id string) StepOption {
	return func(s *domain.ProcessStep) {
		s.TradeID = &id
	}
}

// NewTestModel builds a model whose steps get consecutive Seq values in
// argument order.
func NewTestModel(name string, steps ...domain.ProcessStep) *domain.ProcessModel {
	now := time.Now().UTC()
	m := &domain.ProcessModel{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, s := range steps {
		s.ModelID = m.ID
		s.Seq = i + 1
		m.Steps = append(m.Steps, s)
	}
	return m
}

func NewTestStep(activity string, durationDays int, opts ...StepOption) domain.ProcessStep {
	s := domain.ProcessStep{
		ID:           uuid.New().String(),
		Activity:     activity,
		DurationDays: durationDays,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Task options
type TaskOption func(*domain.Task)

func WithPlanned(start, end time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartPlanned = &start
		t.EndPlanned = &end
	}
}

func WithStartActual(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.StartActual = &d
		t.Status = domain.TaskInProgress
	}
}

func WithEndActual(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.EndActual = &d
		t.Status = domain.TaskDone
	}
}

func NewTestTask(projectID, unitID, stepID string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		UnitID:    unitID,
		StepID:    stepID,
		Status:    domain.TaskOpen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func NewTestTrade(name string) *domain.Trade {
	return &domain.Trade{ID: uuid.New().String(), Name: name}
}
