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

type taskService struct {
	tasks    repository.TaskRepo
	answers  repository.CheckAnswerRepo
	uow      db.UnitOfWork
	audit    audit.Sink
	clock    Clock
	observer UseCaseObserver
}

func NewTaskService(
	tasks repository.TaskRepo,
	answers repository.CheckAnswerRepo,
	uow db.UnitOfWork,
	sink audit.Sink,
	clock Clock,
	observers ...UseCaseObserver,
) TaskService {
	return &taskService{
		tasks:    tasks,
		answers:  answers,
		uow:      uow,
		audit:    sinkOrNop(sink),
		clock:    clockOrReal(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *taskService) Get(ctx context.Context, id string) (*domain.TaskDetail, error) {
	d, err := s.tasks.GetDetail(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting task: %w", err)
	}
	return d, nil
}

func (s *taskService) List(ctx context.Context, projectID string, filter domain.TaskFilter) ([]*domain.TaskDetail, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.tasks.ListDetailed(ctx, projectID, filter, todayFrom(s.clock, nil))
}

func (s *taskService) Update(ctx context.Context, req app.TaskUpdateRequest) (result *app.TaskUpdateResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": req.TaskID}
	defer observe(ctx, s.observer, "task_update", startedAt, fields, &err)

	if req.Status != nil && !domain.ValidTaskStatuses[string(*req.Status)] {
		err = &app.FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", *req.Status)}
		logFailure(ctx, s.audit, req.Actor, "task.update", err, audit.Details{"task_id": req.TaskID})
		return nil, err
	}

	now := nowFrom(s.clock, nil)
	var location string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		current, err := repos.tasks.GetDetail(ctx, req.TaskID)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}
		location = current.Location()

		next := current.Task
		applyTaskPatch(&next, req)
		if next.StartPlanned != nil && next.EndPlanned != nil && next.EndPlanned.Before(*next.StartPlanned) {
			return fmt.Errorf("planned range %s..%s: %w",
				domain.FormatDate(next.StartPlanned), domain.FormatDate(next.EndPlanned), domain.ErrInvalidRange)
		}

		changes := diff.Compute(current.Task.Fields(), next.Fields())
		next.UpdatedAt = now
		if err := repos.tasks.Update(ctx, &next); err != nil {
			return err
		}

		result = &app.TaskUpdateResult{Task: &next, Changes: changes, Outcome: app.OutcomeApplied}
		if !changes.Empty() {
			result.Outcome = app.OutcomeAppliedAndLogged
		}
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, "task.update", err, audit.Details{"task_id": req.TaskID})
		return nil, err
	}

	fields["outcome"] = string(result.Outcome)
	if result.Outcome == app.OutcomeAppliedAndLogged {
		s.audit.Log(ctx, audit.Entry{
			Actor:      req.Actor,
			Action:     "task.update",
			OK:         true,
			StatusCode: 200,
			Details: audit.Details{
				"task_id":  req.TaskID,
				"location": location,
				"changes":  result.Changes,
			},
		})
	}
	return result, nil
}

// applyTaskPatch copies the set fields of req onto t. When the actual dates
// change and no explicit status is given, the status is re-derived.
func applyTaskPatch(t *domain.Task, req app.TaskUpdateRequest) {
	if req.StartPlanned != nil {
		t.StartPlanned = datePtr(*req.StartPlanned)
	}
	if req.EndPlanned != nil {
		t.EndPlanned = datePtr(*req.EndPlanned)
	}

	actualsTouched := false
	switch {
	case req.ClearStartActual:
		t.StartActual = nil
		actualsTouched = true
	case req.StartActual != nil:
		t.StartActual = datePtr(*req.StartActual)
		actualsTouched = true
	}
	switch {
	case req.ClearEndActual:
		t.EndActual = nil
		actualsTouched = true
	case req.EndActual != nil:
		t.EndActual = datePtr(*req.EndActual)
		actualsTouched = true
	}

	switch {
	case req.ClearAssignee:
		t.AssigneeID = nil
	case req.AssigneeID != nil:
		a := *req.AssigneeID
		t.AssigneeID = &a
	}
	if req.Description != nil {
		t.Description = *req.Description
	}

	if req.Status != nil {
		t.Status = *req.Status
	} else if actualsTouched {
		t.Status = t.Classify()
	}
}

func (s *taskService) BulkUpdate(ctx context.Context, req app.BulkUpdateRequest) (result *app.BulkUpdateResult, err error) {
	startedAt := time.Now()
	action := req.Patch.Action()
	fields := map[string]any{"project_id": req.ProjectID, "action": action}
	defer observe(ctx, s.observer, "task_bulk_update", startedAt, fields, &err)

	result = &app.BulkUpdateResult{Action: action}
	if req.Patch.Empty() {
		return result, nil
	}
	if req.Patch.Status != nil && !domain.ValidTaskStatuses[string(*req.Patch.Status)] {
		err = &app.FieldError{Field: "status", Message: fmt.Sprintf("unknown status %q", *req.Patch.Status)}
		logFailure(ctx, s.audit, req.Actor, action, err, audit.Details{"project_id": req.ProjectID})
		return nil, err
	}
	if err = req.Filter.Validate(); err != nil {
		logFailure(ctx, s.audit, req.Actor, action, err, audit.Details{"project_id": req.ProjectID})
		return nil, err
	}

	now := nowFrom(s.clock, req.Now)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		if _, err := repos.projects.GetByID(ctx, req.ProjectID); err != nil {
			return fmt.Errorf("bulk update: %w", err)
		}
		selected, err := repos.tasks.ListDetailed(ctx, req.ProjectID, req.Filter, domain.DateOf(now))
		if err != nil {
			return err
		}
		for _, d := range selected {
			t := d.Task
			if !applyBulkPatch(&t, req.Patch) {
				continue
			}
			t.UpdatedAt = now
			if err := repos.tasks.Update(ctx, &t); err != nil {
				return err
			}
			result.AffectedIDs = append(result.AffectedIDs, t.ID)
		}
		result.Affected = len(result.AffectedIDs)
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, action, err, audit.Details{"project_id": req.ProjectID})
		return nil, err
	}

	fields["affected"] = result.Affected
	if result.Affected > 0 {
		s.audit.Log(ctx, audit.Entry{
			Actor:      req.Actor,
			Action:     action,
			OK:         true,
			StatusCode: 200,
			Details: audit.Details{
				"project_id": req.ProjectID,
				"affected":   result.Affected,
				"task_ids":   result.AffectedIDs,
				"payload":    bulkPatchDetails(req.Patch),
			},
		})
	}
	return result, nil
}

// applyBulkPatch applies p to t and reports whether any field changed. A
// copy-from-planned value without a planned date leaves the field as it was.
func applyBulkPatch(t *domain.Task, p domain.BulkPatch) bool {
	before := t.Fields()
	actualsTouched := false
	if p.StartActual != nil {
		if d, ok := p.StartActual.Resolve(t.StartPlanned); ok {
			t.StartActual = d
			actualsTouched = true
		}
	}
	if p.EndActual != nil {
		if d, ok := p.EndActual.Resolve(t.EndPlanned); ok {
			t.EndActual = d
			actualsTouched = true
		}
	}
	if p.AssigneeID != nil {
		if a := strings.TrimSpace(*p.AssigneeID); a == "" {
			t.AssigneeID = nil
		} else {
			t.AssigneeID = &a
		}
	}
	if p.Status != nil {
		t.Status = *p.Status
	} else if actualsTouched {
		t.Status = t.Classify()
	}
	return !diff.Compute(before, t.Fields()).Empty()
}

func bulkPatchDetails(p domain.BulkPatch) map[string]any {
	out := map[string]any{}
	if p.StartActual != nil {
		out["start_actual"] = p.StartActual.String()
	}
	if p.EndActual != nil {
		out["end_actual"] = p.EndActual.String()
	}
	if p.Status != nil {
		out["status"] = string(*p.Status)
	}
	if p.AssigneeID != nil {
		out["assignee_id"] = *p.AssigneeID
	}
	return out
}

func (s *taskService) Delete(ctx context.Context, id, actor string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": id}
	defer observe(ctx, s.observer, "task_delete", startedAt, fields, &err)

	var detail *domain.TaskDetail
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		d, err := repos.tasks.GetDetail(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting task: %w", err)
		}
		detail = d
		return repos.tasks.Delete(ctx, id)
	})
	if err != nil {
		logFailure(ctx, s.audit, actor, "task.delete", err, audit.Details{"task_id": id})
		return err
	}

	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     "task.delete",
		OK:         true,
		StatusCode: 200,
		Details: audit.Details{
			"task_id":  id,
			"task":     detail.Activity,
			"location": detail.Location(),
		},
	})
	return nil
}

func (s *taskService) ListCheckAnswers(ctx context.Context, taskID string) ([]*domain.TaskCheckAnswer, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, fmt.Errorf("listing check answers: %w", err)
	}
	return s.answers.ListByTask(ctx, taskID)
}

func (s *taskService) SaveCheckAnswers(ctx context.Context, taskID string, inputs []app.CheckAnswerInput, actor string) (saved []*domain.TaskCheckAnswer, err error) {
	startedAt := time.Now()
	fields := map[string]any{"task_id": taskID, "answers": len(inputs)}
	defer observe(ctx, s.observer, "task_check_answers", startedAt, fields, &err)

	for i, in := range inputs {
		if err = validateCheckAnswer(i, in); err != nil {
			logFailure(ctx, s.audit, actor, "task.check_answers", err, audit.Details{"task_id": taskID})
			return nil, err
		}
	}

	now := nowFrom(s.clock, nil)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		if _, err := repos.tasks.GetByID(ctx, taskID); err != nil {
			return fmt.Errorf("saving check answers: %w", err)
		}
		for _, in := range inputs {
			a := &domain.TaskCheckAnswer{
				ID:         uuid.New().String(),
				TaskID:     taskID,
				QuestionID: in.QuestionID,
				Label:      strings.TrimSpace(in.Label),
				FieldType:  in.FieldType,
				BoolValue:  in.BoolValue,
				TextValue:  in.TextValue,
				ImagePath:  in.ImagePath,
				CreatedAt:  now,
			}
			if err := repos.answers.Create(ctx, a); err != nil {
				return err
			}
			saved = append(saved, a)
		}
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, actor, "task.check_answers", err, audit.Details{"task_id": taskID})
		return nil, err
	}

	labels := make([]string, 0, len(saved))
	for _, a := range saved {
		labels = append(labels, a.Label)
	}
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     "task.check_answers",
		OK:         true,
		StatusCode: 200,
		Details:    audit.Details{"task_id": taskID, "labels": labels},
	})
	return saved, nil
}

func validateCheckAnswer(i int, in app.CheckAnswerInput) error {
	field := func(name string) string { return fmt.Sprintf("answers[%d].%s", i, name) }
	if strings.TrimSpace(in.Label) == "" {
		return &app.FieldError{Field: field("label"), Message: "required"}
	}
	if !domain.ValidFieldTypes[string(in.FieldType)] {
		return &app.FieldError{Field: field("field_type"), Message: fmt.Sprintf("unknown type %q", in.FieldType)}
	}
	switch in.FieldType {
	case domain.FieldBoolean:
		if in.BoolValue == nil {
			return &app.FieldError{Field: field("bool_value"), Message: "required for boolean answers"}
		}
	case domain.FieldText:
		if in.TextValue == nil {
			return &app.FieldError{Field: field("text_value"), Message: "required for text answers"}
		}
	case domain.FieldImage:
		if in.ImagePath == nil || strings.TrimSpace(*in.ImagePath) == "" {
			return &app.FieldError{Field: field("image_path"), Message: "required for image answers"}
		}
	}
	return nil
}
