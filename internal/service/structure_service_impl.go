package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/audit"
	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/diff"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/hierarchy"
	"github.com/alexanderramin/taktplan/internal/repository"
	"github.com/google/uuid"
)

type structureService struct {
	structure repository.StructureRepo
	models    repository.ProcessModelRepo
	uow       db.UnitOfWork
	audit     audit.Sink
	clock     Clock
	observer  UseCaseObserver
}

func NewStructureService(
	structure repository.StructureRepo,
	models repository.ProcessModelRepo,
	uow db.UnitOfWork,
	sink audit.Sink,
	clock Clock,
	observers ...UseCaseObserver,
) StructureService {
	return &structureService{
		structure: structure,
		models:    models,
		uow:       uow,
		audit:     sinkOrNop(sink),
		clock:     clockOrReal(clock),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func structureAction(level domain.Level, verb string) string {
	return "structure." + string(level) + "." + verb
}

func (s *structureService) Create(ctx context.Context, req app.CreateNodeRequest) (node *domain.StructuralUnit, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": req.ProjectID, "level": string(req.Level)}
	defer observe(ctx, s.observer, "structure_create", startedAt, fields, &err)

	action := structureAction(req.Level, "create")
	name := strings.TrimSpace(req.Name)
	switch {
	case !domain.ValidLevels[string(req.Level)]:
		err = &app.FieldError{Field: "level", Message: fmt.Sprintf("unknown level %q", req.Level)}
	case name == "":
		err = &app.FieldError{Field: "name", Message: "required"}
	case req.Level == domain.LevelBuilding && req.ParentID != "":
		err = &app.FieldError{Field: "parent_id", Message: "buildings hang directly off the project"}
	case req.Level != domain.LevelBuilding && req.ParentID == "":
		err = &app.FieldError{Field: "parent_id", Message: fmt.Sprintf("a %s needs a %s parent", req.Level, req.Level.Parent())}
	}
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, action, err, audit.Details{"project_id": req.ProjectID})
		return nil, err
	}

	now := nowFrom(s.clock, nil)
	var location string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		if _, err := repos.projects.GetByID(ctx, req.ProjectID); err != nil {
			return fmt.Errorf("creating %s: %w", req.Level, err)
		}

		node = &domain.StructuralUnit{
			ID:        uuid.New().String(),
			ProjectID: req.ProjectID,
			Level:     req.Level,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if req.ParentID != "" {
			parent, err := repos.structure.GetByID(ctx, req.ParentID)
			if err != nil {
				return fmt.Errorf("creating %s: %w", req.Level, err)
			}
			if parent.Level != req.Level.Parent() || parent.ProjectID != req.ProjectID {
				return &app.FieldError{
					Field:   "parent_id",
					Message: fmt.Sprintf("a %s must belong to a %s of the same project", req.Level, req.Level.Parent()),
				}
			}
			parentID := parent.ID
			node.ParentID = &parentID
		}
		if req.PlannedStart != nil {
			node.PlannedStart = datePtr(*req.PlannedStart)
		}
		if req.ProcessModelID != nil && *req.ProcessModelID != "" {
			if _, err := repos.models.GetByID(ctx, *req.ProcessModelID); err != nil {
				return fmt.Errorf("creating %s: %w", req.Level, err)
			}
			modelID := *req.ProcessModelID
			node.ProcessModelID = &modelID
		}
		if err := repos.structure.Create(ctx, node); err != nil {
			return err
		}

		chain, err := repos.resolver().Chain(ctx, node.ID)
		if err != nil {
			return err
		}
		location = hierarchy.LocationPath(chain)
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, action, err, audit.Details{"project_id": req.ProjectID, "name": name})
		return nil, err
	}

	fields["node_id"] = node.ID
	s.audit.Log(ctx, audit.Entry{
		Actor:      req.Actor,
		Action:     action,
		OK:         true,
		StatusCode: 200,
		Details: audit.Details{
			"id":       node.ID,
			"location": location,
			"fields":   diff.Compute(nil, node.Fields()),
		},
	})
	return node, nil
}

func (s *structureService) GetByID(ctx context.Context, id string) (*domain.StructuralUnit, error) {
	n, err := s.structure.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting structural unit: %w", err)
	}
	return n, nil
}

func (s *structureService) Update(ctx context.Context, req app.UpdateNodeRequest) (result *app.UpdateNodeResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"node_id": req.ID, "propagate": req.Propagate}
	defer observe(ctx, s.observer, "structure_update", startedAt, fields, &err)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		err = &app.FieldError{Field: "name", Message: "must not be empty"}
		logFailure(ctx, s.audit, req.Actor, "structure.update", err, audit.Details{"id": req.ID})
		return nil, err
	}

	now := nowFrom(s.clock, nil)
	var (
		action   = "structure.update"
		location string
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		current, err := repos.structure.GetByID(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("updating structural unit: %w", err)
		}
		action = structureAction(current.Level, "update")

		next := *current
		if req.Name != nil {
			next.Name = strings.TrimSpace(*req.Name)
		}
		switch {
		case req.ClearPlannedStart:
			next.PlannedStart = nil
		case req.PlannedStart != nil:
			next.PlannedStart = datePtr(*req.PlannedStart)
		}
		switch {
		case req.ClearProcessModel:
			next.ProcessModelID = nil
		case req.ProcessModelID != nil:
			if _, err := repos.models.GetByID(ctx, *req.ProcessModelID); err != nil {
				return fmt.Errorf("updating structural unit: %w", err)
			}
			modelID := *req.ProcessModelID
			next.ProcessModelID = &modelID
		}

		changes := diff.Compute(current.Fields(), next.Fields())
		next.UpdatedAt = now
		if err := repos.structure.Update(ctx, &next); err != nil {
			return err
		}

		result = &app.UpdateNodeResult{Node: &next, Changes: changes, Outcome: app.OutcomeApplied}
		if req.Propagate {
			n, err := repos.structure.SetProcessModelForDescendants(ctx, next.ID, next.ProcessModelID, now)
			if err != nil {
				return err
			}
			result.Propagated = n
		}
		if !changes.Empty() || result.Propagated > 0 {
			result.Outcome = app.OutcomeAppliedAndLogged
		}

		chain, err := repos.resolver().Chain(ctx, next.ID)
		if err != nil {
			return err
		}
		location = hierarchy.LocationPath(chain)
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, action, err, audit.Details{"id": req.ID})
		return nil, err
	}

	fields["outcome"] = string(result.Outcome)
	if result.Outcome == app.OutcomeAppliedAndLogged {
		details := audit.Details{
			"id":       req.ID,
			"location": location,
			"changes":  result.Changes,
		}
		if req.Propagate {
			details["propagated"] = result.Propagated
		}
		s.audit.Log(ctx, audit.Entry{
			Actor:      req.Actor,
			Action:     action,
			OK:         true,
			StatusCode: 200,
			Details:    details,
		})
	}
	return result, nil
}

func (s *structureService) SetProcessModel(ctx context.Context, id string, modelID *string, propagate bool, actor string) (*app.UpdateNodeResult, error) {
	req := app.UpdateNodeRequest{ID: id, Propagate: propagate, Actor: actor}
	if modelID == nil || *modelID == "" {
		req.ClearProcessModel = true
	} else {
		req.ProcessModelID = modelID
	}
	return s.Update(ctx, req)
}

func (s *structureService) SetPlannedStart(ctx context.Context, id string, date *time.Time, actor string) (*app.UpdateNodeResult, error) {
	req := app.UpdateNodeRequest{ID: id, Actor: actor}
	if date == nil {
		req.ClearPlannedStart = true
	} else {
		req.PlannedStart = date
	}
	return s.Update(ctx, req)
}

// Delete removes a node together with its descendants and their tasks.
func (s *structureService) Delete(ctx context.Context, id, actor string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"node_id": id}
	defer observe(ctx, s.observer, "structure_delete", startedAt, fields, &err)

	var (
		action   = "structure.delete"
		location string
	)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		chain, err := repos.resolver().Chain(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting structural unit: %w", err)
		}
		action = structureAction(chain[0].Level, "delete")
		location = hierarchy.LocationPath(chain)
		return repos.structure.Delete(ctx, id)
	})
	if err != nil {
		logFailure(ctx, s.audit, actor, action, err, audit.Details{"id": id})
		return err
	}

	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     action,
		OK:         true,
		StatusCode: 200,
		Details:    audit.Details{"id": id, "location": location},
	})
	return nil
}

// Tree returns the project's buildings with their nested children.
func (s *structureService) Tree(ctx context.Context, projectID string) ([]*app.TreeNode, error) {
	nodes, err := s.structure.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*app.TreeNode, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = &app.TreeNode{Node: n}
	}
	var roots []*app.TreeNode
	// ListByProject orders parents before children, so every parent is
	// already present when its children are attached.
	for _, n := range nodes {
		tn := byID[n.ID]
		if n.ParentID == nil {
			roots = append(roots, tn)
			continue
		}
		if parent, ok := byID[*n.ParentID]; ok {
			parent.Children = append(parent.Children, tn)
		}
	}
	return roots, nil
}

func (s *structureService) Location(ctx context.Context, id string) (string, error) {
	chain, err := hierarchy.NewResolver(s.structure, s.models).Chain(ctx, id)
	if err != nil {
		return "", err
	}
	return hierarchy.LocationPath(chain), nil
}
