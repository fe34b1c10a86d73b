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
	"github.com/alexanderramin/taktplan/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	uow      db.UnitOfWork
	audit    audit.Sink
	clock    Clock
	observer UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	uow db.UnitOfWork,
	sink audit.Sink,
	clock Clock,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects: projects,
		uow:      uow,
		audit:    sinkOrNop(sink),
		clock:    clockOrReal(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, name string, startDate *time.Time, actor string) (p *domain.Project, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": name}
	defer observe(ctx, s.observer, "project_create", startedAt, fields, &err)

	name = strings.TrimSpace(name)
	if name == "" {
		err = &app.FieldError{Field: "name", Message: "required"}
		logFailure(ctx, s.audit, actor, "project.create", err, nil)
		return nil, err
	}

	now := nowFrom(s.clock, nil)
	p = &domain.Project{ID: uuid.New().String(), Name: name, CreatedAt: now, UpdatedAt: now}
	if startDate != nil {
		p.StartDate = datePtr(*startDate)
	}
	if err = s.projects.Create(ctx, p); err != nil {
		logFailure(ctx, s.audit, actor, "project.create", err, audit.Details{"name": name})
		return nil, err
	}

	fields["project_id"] = p.ID
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     "project.create",
		OK:         true,
		StatusCode: 200,
		Details:    audit.Details{"id": p.ID, "fields": diff.Compute(nil, p.Fields())},
	})
	return p, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting project: %w", err)
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) Update(ctx context.Context, req app.ProjectUpdateRequest) (p *domain.Project, changes diff.Changes, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": req.ID}
	defer observe(ctx, s.observer, "project_update", startedAt, fields, &err)

	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		err = &app.FieldError{Field: "name", Message: "must not be empty"}
		logFailure(ctx, s.audit, req.Actor, "project.update", err, audit.Details{"id": req.ID})
		return nil, nil, err
	}

	now := nowFrom(s.clock, nil)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		current, err := projects.GetByID(ctx, req.ID)
		if err != nil {
			return fmt.Errorf("updating project: %w", err)
		}
		next := *current
		if req.Name != nil {
			next.Name = strings.TrimSpace(*req.Name)
		}
		switch {
		case req.ClearStartDate:
			next.StartDate = nil
		case req.StartDate != nil:
			next.StartDate = datePtr(*req.StartDate)
		}
		changes = diff.Compute(current.Fields(), next.Fields())
		next.UpdatedAt = now
		if err := projects.Update(ctx, &next); err != nil {
			return err
		}
		p = &next
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, "project.update", err, audit.Details{"id": req.ID})
		return nil, nil, err
	}

	fields["changed"] = len(changes)
	if !changes.Empty() {
		s.audit.Log(ctx, audit.Entry{
			Actor:      req.Actor,
			Action:     "project.update",
			OK:         true,
			StatusCode: 200,
			Details:    audit.Details{"id": req.ID, "changes": changes},
		})
	}
	return p, changes, nil
}

// Delete removes a project and, by cascade, its structure and tasks.
func (s *projectService) Delete(ctx context.Context, id, actor string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": id}
	defer observe(ctx, s.observer, "project_delete", startedAt, fields, &err)

	var name string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		projects := repository.NewSQLiteProjectRepo(tx)
		p, err := projects.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting project: %w", err)
		}
		name = p.Name
		return projects.Delete(ctx, id)
	})
	if err != nil {
		logFailure(ctx, s.audit, actor, "project.delete", err, audit.Details{"id": id})
		return err
	}

	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     "project.delete",
		OK:         true,
		StatusCode: 200,
		Details:    audit.Details{"id": id, "name": name},
	})
	return nil
}
