package service

import (
	"context"
	"time"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/diff"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/importer"
)

type ProjectService interface {
	Create(ctx context.Context, name string, startDate *time.Time, actor string) (*domain.Project, error)
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, req app.ProjectUpdateRequest) (*domain.Project, diff.Changes, error)
	Delete(ctx context.Context, id, actor string) error
}

type StructureService interface {
	Create(ctx context.Context, req app.CreateNodeRequest) (*domain.StructuralUnit, error)
	GetByID(ctx context.Context, id string) (*domain.StructuralUnit, error)
	Update(ctx context.Context, req app.UpdateNodeRequest) (*app.UpdateNodeResult, error)
	SetProcessModel(ctx context.Context, id string, modelID *string, propagate bool, actor string) (*app.UpdateNodeResult, error)
	SetPlannedStart(ctx context.Context, id string, date *time.Time, actor string) (*app.UpdateNodeResult, error)
	Delete(ctx context.Context, id, actor string) error
	Tree(ctx context.Context, projectID string) ([]*app.TreeNode, error)
	// Location renders the top-down path of a node, e.g. "Building A - Unit 5".
	Location(ctx context.Context, id string) (string, error)
}

type ModelService interface {
	Create(ctx context.Context, in app.ModelInput, actor string) (*domain.ProcessModel, error)
	ReplaceSteps(ctx context.Context, id string, in app.ModelInput, actor string) (*app.ModelUpdateResult, error)
	Delete(ctx context.Context, id, actor string) error
	Get(ctx context.Context, id string) (*domain.ProcessModel, error)
	GetByName(ctx context.Context, name string) (*domain.ProcessModel, error)
	List(ctx context.Context) ([]*domain.ProcessModel, error)
	CreateTrade(ctx context.Context, name, color string) (*domain.Trade, error)
	ListTrades(ctx context.Context) ([]*domain.Trade, error)
}

type SyncService interface {
	app.SyncUseCase
	// StartOverridesFromStructure derives anchor overrides from the planned
	// start dates stored on each unit or its nearest ancestor.
	StartOverridesFromStructure(ctx context.Context, projectID string, unitIDs []string) (map[string]string, error)
}

type ShiftService interface {
	app.ShiftUseCase
}

type TaskService interface {
	app.BulkUpdateUseCase
	Update(ctx context.Context, req app.TaskUpdateRequest) (*app.TaskUpdateResult, error)
	Delete(ctx context.Context, id, actor string) error
	Get(ctx context.Context, id string) (*domain.TaskDetail, error)
	List(ctx context.Context, projectID string, filter domain.TaskFilter) ([]*domain.TaskDetail, error)
	SaveCheckAnswers(ctx context.Context, taskID string, answers []app.CheckAnswerInput, actor string) ([]*domain.TaskCheckAnswer, error)
	ListCheckAnswers(ctx context.Context, taskID string) ([]*domain.TaskCheckAnswer, error)
}

// ImportResult summarises a site import.
type ImportResult struct {
	Project   *domain.Project
	Trades    int
	Models    []*domain.ProcessModel
	NodeCount int
}

type ImportService interface {
	ImportFile(ctx context.Context, path, actor string) (*ImportResult, error)
	ImportSchema(ctx context.Context, schema *importer.ImportSchema, actor string) (*ImportResult, error)
}
