package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/audit"
	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/importer"
)

type importService struct {
	uow      db.UnitOfWork
	audit    audit.Sink
	clock    Clock
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, sink audit.Sink, clock Clock, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		audit:    sinkOrNop(sink),
		clock:    clockOrReal(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportFile(ctx context.Context, path, actor string) (*ImportResult, error) {
	schema, err := importer.LoadImportSchema(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.ImportSchema(ctx, schema, actor)
}

// ImportSchema persists every section of the file in one transaction:
// trades, then models, then the project and its structure.
func (s *importService) ImportSchema(ctx context.Context, schema *importer.ImportSchema, actor string) (result *ImportResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "import", startedAt, fields, &err)

	if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
		err = formatValidationErrors(errs)
		logFailure(ctx, s.audit, actor, "import.apply", err, nil)
		return nil, err
	}
	plan, err := importer.Convert(schema)
	if err != nil {
		err = fmt.Errorf("converting import schema: %w", err)
		logFailure(ctx, s.audit, actor, "import.apply", err, nil)
		return nil, err
	}
	for _, m := range plan.Models {
		if err = validateModelInput(m); err != nil {
			logFailure(ctx, s.audit, actor, "import.apply", err, nil)
			return nil, err
		}
	}

	now := nowFrom(s.clock, nil)
	result = &ImportResult{}
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)

		for _, t := range plan.Trades {
			if existing, err := repos.trades.GetByName(ctx, t.Name); err == nil {
				if t.Color != "" && existing.Color != t.Color {
					return &app.FieldError{Field: "trades", Message: fmt.Sprintf("trade %q already exists with color %q", t.Name, existing.Color)}
				}
				continue
			} else if !isNotFound(err) {
				return err
			}
			if err := repos.trades.Create(ctx, t); err != nil {
				return fmt.Errorf("creating trade %q: %w", t.Name, err)
			}
			result.Trades++
		}

		modelIDs := make(map[string]string)
		for _, in := range plan.Models {
			m, err := createModel(ctx, repos, in, now)
			if err != nil {
				return fmt.Errorf("creating model %q: %w", in.Name, err)
			}
			modelIDs[m.Name] = m.ID
			result.Models = append(result.Models, m)
		}

		if plan.Project == nil {
			return nil
		}
		plan.Project.CreatedAt, plan.Project.UpdatedAt = now, now
		if err := repos.projects.Create(ctx, plan.Project); err != nil {
			return fmt.Errorf("creating project: %w", err)
		}
		result.Project = plan.Project

		for _, node := range plan.Nodes {
			if name, ok := plan.NodeModels[node.ID]; ok {
				id, err := resolveModelName(ctx, repos, modelIDs, name)
				if err != nil {
					return fmt.Errorf("node %q: %w", node.Name, err)
				}
				node.ProcessModelID = &id
			}
			node.CreatedAt, node.UpdatedAt = now, now
			if err := repos.structure.Create(ctx, node); err != nil {
				return fmt.Errorf("creating %s %q: %w", node.Level, node.Name, err)
			}
		}
		result.NodeCount = len(plan.Nodes)
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, actor, "import.apply", err, nil)
		return nil, err
	}

	modelNames := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		modelNames = append(modelNames, m.Name)
	}
	details := audit.Details{
		"trades": result.Trades,
		"models": modelNames,
		"nodes":  result.NodeCount,
	}
	if result.Project != nil {
		details["project_id"] = result.Project.ID
		details["project"] = result.Project.Name
	}
	fields["models"] = len(modelNames)
	fields["nodes"] = result.NodeCount
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     "import.apply",
		OK:         true,
		StatusCode: 200,
		Details:    details,
	})
	return result, nil
}

// resolveModelName prefers a model created by the same import over one
// already stored under that name.
func resolveModelName(ctx context.Context, repos txRepos, created map[string]string, name string) (string, error) {
	if id, ok := created[name]; ok {
		return id, nil
	}
	m, err := repos.models.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("process model %q: %w", name, err)
	}
	return m.ID, nil
}

// formatValidationErrors folds every schema problem into one ErrValidation.
func formatValidationErrors(errs []error) error {
	lines := make([]string, 0, len(errs))
	for _, e := range errs {
		lines = append(lines, "  - "+e.Error())
	}
	return fmt.Errorf("%w: import failed with %d errors:\n%s", domain.ErrValidation, len(errs), strings.Join(lines, "\n"))
}
