package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

type StructureRepo interface {
	Create(ctx context.Context, n *domain.StructuralUnit) error
	GetByID(ctx context.Context, id string) (*domain.StructuralUnit, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.StructuralUnit, error)
	ListChildren(ctx context.Context, parentID string) ([]*domain.StructuralUnit, error)
	// ListUnits returns the unit-level nodes of a project, narrowed to ids
	// when ids is non-empty.
	ListUnits(ctx context.Context, projectID string, ids []string) ([]*domain.StructuralUnit, error)
	Update(ctx context.Context, n *domain.StructuralUnit) error
	// SetProcessModelForDescendants overwrites the model id of every node
	// below rootID and returns how many rows changed.
	SetProcessModelForDescendants(ctx context.Context, rootID string, modelID *string, now time.Time) (int, error)
	Delete(ctx context.Context, id string) error
}

type TradeRepo interface {
	Create(ctx context.Context, t *domain.Trade) error
	GetByID(ctx context.Context, id string) (*domain.Trade, error)
	GetByName(ctx context.Context, name string) (*domain.Trade, error)
	List(ctx context.Context) ([]*domain.Trade, error)
}

type ProcessModelRepo interface {
	Create(ctx context.Context, m *domain.ProcessModel) error
	GetByID(ctx context.Context, id string) (*domain.ProcessModel, error)
	GetByName(ctx context.Context, name string) (*domain.ProcessModel, error)
	// GetWithSteps loads the model and its steps in order.
	GetWithSteps(ctx context.Context, id string) (*domain.ProcessModel, error)
	List(ctx context.Context) ([]*domain.ProcessModel, error)
	Update(ctx context.Context, m *domain.ProcessModel) error
	Delete(ctx context.Context, id string) error

	CreateStep(ctx context.Context, s *domain.ProcessStep) error
	UpdateStep(ctx context.Context, s *domain.ProcessStep) error
	DeleteStep(ctx context.Context, id string) error
	ListSteps(ctx context.Context, modelID string) ([]domain.ProcessStep, error)
	NextStepSeq(ctx context.Context, modelID string) (int, error)
}

type TaskRepo interface {
	Create(ctx context.Context, t *domain.Task) error
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetDetail(ctx context.Context, id string) (*domain.TaskDetail, error)
	Update(ctx context.Context, t *domain.Task) error
	Delete(ctx context.Context, id string) error
	ListByUnit(ctx context.Context, unitID string) ([]*domain.Task, error)
	// DeleteByUnits removes every task of the given units in one statement.
	DeleteByUnits(ctx context.Context, unitIDs []string) (int, error)
	// ListDetailed returns the project's tasks joined with names and narrowed
	// by filter. today anchors the delayed predicate.
	ListDetailed(ctx context.Context, projectID string, filter domain.TaskFilter, today time.Time) ([]*domain.TaskDetail, error)
}

type CheckAnswerRepo interface {
	Create(ctx context.Context, a *domain.TaskCheckAnswer) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskCheckAnswer, error)
}

// AuditQuery narrows an audit listing. ActionPrefix matches the start of
// the action name, e.g. "task." for every task mutation.
type AuditQuery struct {
	ActionPrefix string
	Actor        string
	Limit        int
}

type AuditRepo interface {
	Append(ctx context.Context, rec *domain.AuditRecord) error
	List(ctx context.Context, q AuditQuery) ([]*domain.AuditRecord, error)
}
