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

type modelService struct {
	models   repository.ProcessModelRepo
	trades   repository.TradeRepo
	uow      db.UnitOfWork
	audit    audit.Sink
	clock    Clock
	observer UseCaseObserver
}

func NewModelService(
	models repository.ProcessModelRepo,
	trades repository.TradeRepo,
	uow db.UnitOfWork,
	sink audit.Sink,
	clock Clock,
	observers ...UseCaseObserver,
) ModelService {
	return &modelService{
		models:   models,
		trades:   trades,
		uow:      uow,
		audit:    sinkOrNop(sink),
		clock:    clockOrReal(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

func validateModelInput(in app.ModelInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return &app.FieldError{Field: "name", Message: "required"}
	}
	seen := make(map[string]bool)
	for i, st := range in.Steps {
		if strings.TrimSpace(st.Activity) == "" {
			return &app.FieldError{Field: fmt.Sprintf("steps[%d].activity", i), Message: "required"}
		}
		if st.DurationDays < 0 {
			return &app.FieldError{Field: fmt.Sprintf("steps[%d].duration_days", i), Message: "must not be negative"}
		}
		if st.ID != "" {
			if seen[st.ID] {
				return &app.FieldError{Field: fmt.Sprintf("steps[%d].id", i), Message: "duplicate step id"}
			}
			seen[st.ID] = true
		}
	}
	return nil
}

// modelFields is the diffable view of a model: its name and the ordered
// step attributes.
func modelFields(name string, steps []domain.ProcessStep) map[string]any {
	m := &domain.ProcessModel{Steps: steps}
	ordered := m.OrderedSteps()
	durations := make([]int, 0, len(ordered))
	parallel := make([]bool, 0, len(ordered))
	trades := make([]string, 0, len(ordered))
	for _, st := range ordered {
		durations = append(durations, st.DurationDays)
		parallel = append(parallel, st.Parallel)
		trades = append(trades, derefStr(st.TradeID))
	}
	return map[string]any{
		"name":      name,
		"steps":     m.Activities(),
		"durations": durations,
		"parallel":  parallel,
		"trades":    trades,
	}
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ensureTrade returns the id of the named trade, creating it on first use.
// An empty name means no trade.
func ensureTrade(ctx context.Context, trades repository.TradeRepo, name string) (*string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	t, err := trades.GetByName(ctx, name)
	if err == nil {
		return &t.ID, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	t = &domain.Trade{ID: uuid.New().String(), Name: name}
	if err := trades.Create(ctx, t); err != nil {
		return nil, err
	}
	return &t.ID, nil
}

// createModel inserts a validated model and its steps, creating any trade
// referenced by name that does not exist yet.
func createModel(ctx context.Context, repos txRepos, in app.ModelInput, now time.Time) (*domain.ProcessModel, error) {
	name := strings.TrimSpace(in.Name)
	if _, err := repos.models.GetByName(ctx, name); err == nil {
		return nil, &app.FieldError{Field: "name", Message: fmt.Sprintf("process model %q already exists", name)}
	} else if !isNotFound(err) {
		return nil, err
	}
	model := &domain.ProcessModel{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repos.models.Create(ctx, model); err != nil {
		return nil, err
	}
	for i, st := range in.Steps {
		tradeID, err := ensureTrade(ctx, repos.trades, st.Trade)
		if err != nil {
			return nil, err
		}
		step := domain.ProcessStep{
			ID:           uuid.New().String(),
			ModelID:      model.ID,
			Activity:     strings.TrimSpace(st.Activity),
			TradeID:      tradeID,
			DurationDays: st.DurationDays,
			Order:        st.Order,
			Seq:          i + 1,
			Parallel:     st.Parallel,
		}
		if err := repos.models.CreateStep(ctx, &step); err != nil {
			return nil, err
		}
		model.Steps = append(model.Steps, step)
	}
	return model, nil
}

func (s *modelService) Create(ctx context.Context, in app.ModelInput, actor string) (model *domain.ProcessModel, err error) {
	startedAt := time.Now()
	fields := map[string]any{"name": in.Name, "steps": len(in.Steps)}
	defer observe(ctx, s.observer, "model_create", startedAt, fields, &err)

	if err = validateModelInput(in); err != nil {
		logFailure(ctx, s.audit, actor, "processmodel.create", err, audit.Details{"name": in.Name})
		return nil, err
	}

	now := nowFrom(s.clock, nil)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		var err error
		model, err = createModel(ctx, newTxRepos(tx), in, now)
		return err
	})
	if err != nil {
		logFailure(ctx, s.audit, actor, "processmodel.create", err, audit.Details{"name": in.Name})
		return nil, err
	}

	fields["model_id"] = model.ID
	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     "processmodel.create",
		OK:         true,
		StatusCode: 200,
		Details: audit.Details{
			"id":    model.ID,
			"name":  model.Name,
			"steps": model.Activities(),
		},
	})
	return model, nil
}

// ReplaceSteps sets the model's name and full step list. Inputs carrying an
// existing step id update that step in place; steps missing from the input
// are deleted together with their tasks. Without an explicit order a step
// takes its list position.
func (s *modelService) ReplaceSteps(ctx context.Context, id string, in app.ModelInput, actor string) (result *app.ModelUpdateResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"model_id": id, "steps": len(in.Steps)}
	defer observe(ctx, s.observer, "model_replace_steps", startedAt, fields, &err)

	if err = validateModelInput(in); err != nil {
		logFailure(ctx, s.audit, actor, "processmodel.update", err, audit.Details{"id": id})
		return nil, err
	}

	now := nowFrom(s.clock, nil)
	var name string
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		current, err := repos.models.GetWithSteps(ctx, id)
		if err != nil {
			return fmt.Errorf("replacing steps: %w", err)
		}
		existing := make(map[string]domain.ProcessStep, len(current.Steps))
		for _, st := range current.Steps {
			existing[st.ID] = st
		}

		nextSeq, err := repos.models.NextStepSeq(ctx, id)
		if err != nil {
			return err
		}

		result = &app.ModelUpdateResult{ModelID: id, Outcome: app.OutcomeApplied}
		var next []domain.ProcessStep
		kept := make(map[string]bool)
		for i, st := range in.Steps {
			tradeID, err := ensureTrade(ctx, repos.trades, st.Trade)
			if err != nil {
				return err
			}
			order := st.Order
			if order == nil {
				pos := i + 1
				order = &pos
			}
			step := domain.ProcessStep{
				ModelID:      id,
				Activity:     strings.TrimSpace(st.Activity),
				TradeID:      tradeID,
				DurationDays: st.DurationDays,
				Order:        order,
				Parallel:     st.Parallel,
			}
			if st.ID != "" {
				prev, ok := existing[st.ID]
				if !ok {
					return &app.FieldError{
						Field:   fmt.Sprintf("steps[%d].id", i),
						Message: fmt.Sprintf("step %s does not belong to this model", st.ID),
					}
				}
				step.ID = prev.ID
				step.Seq = prev.Seq
				kept[prev.ID] = true
				if err := repos.models.UpdateStep(ctx, &step); err != nil {
					return err
				}
				result.Updated++
			} else {
				step.ID = uuid.New().String()
				step.Seq = nextSeq
				nextSeq++
				if err := repos.models.CreateStep(ctx, &step); err != nil {
					return err
				}
				result.Created++
			}
			next = append(next, step)
		}
		for _, st := range current.Steps {
			if kept[st.ID] {
				continue
			}
			if err := repos.models.DeleteStep(ctx, st.ID); err != nil {
				return err
			}
			result.Deleted++
		}

		name = strings.TrimSpace(in.Name)
		if name != current.Name {
			if other, err := repos.models.GetByName(ctx, name); err == nil && other.ID != id {
				return &app.FieldError{Field: "name", Message: fmt.Sprintf("process model %q already exists", name)}
			}
		}
		updated := *current
		updated.Name = name
		updated.UpdatedAt = now
		if err := repos.models.Update(ctx, &updated); err != nil {
			return err
		}

		result.Changes = diff.Compute(modelFields(current.Name, current.Steps), modelFields(name, next))
		if !result.Changes.Empty() {
			result.Outcome = app.OutcomeAppliedAndLogged
		}
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, actor, "processmodel.update", err, audit.Details{"id": id})
		return nil, err
	}

	fields["outcome"] = string(result.Outcome)
	if result.Outcome == app.OutcomeAppliedAndLogged {
		s.audit.Log(ctx, audit.Entry{
			Actor:      actor,
			Action:     "processmodel.update",
			OK:         true,
			StatusCode: 200,
			Details: audit.Details{
				"id":      id,
				"name":    name,
				"changes": result.Changes,
				"created": result.Created,
				"updated": result.Updated,
				"deleted": result.Deleted,
			},
		})
	}
	return result, nil
}

// Delete removes a model. Its steps and their tasks go with it; structural
// nodes referencing it fall back to their ancestors' models.
func (s *modelService) Delete(ctx context.Context, id, actor string) (err error) {
	startedAt := time.Now()
	fields := map[string]any{"model_id": id}
	defer observe(ctx, s.observer, "model_delete", startedAt, fields, &err)

	var model *domain.ProcessModel
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		m, err := repos.models.GetWithSteps(ctx, id)
		if err != nil {
			return fmt.Errorf("deleting process model: %w", err)
		}
		model = m
		return repos.models.Delete(ctx, id)
	})
	if err != nil {
		logFailure(ctx, s.audit, actor, "processmodel.delete", err, audit.Details{"id": id})
		return err
	}

	s.audit.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     "processmodel.delete",
		OK:         true,
		StatusCode: 200,
		Details: audit.Details{
			"id":    id,
			"name":  model.Name,
			"steps": model.Activities(),
		},
	})
	return nil
}

func (s *modelService) Get(ctx context.Context, id string) (*domain.ProcessModel, error) {
	m, err := s.models.GetWithSteps(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting process model: %w", err)
	}
	return m, nil
}

func (s *modelService) GetByName(ctx context.Context, name string) (*domain.ProcessModel, error) {
	m, err := s.models.GetByName(ctx, strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("getting process model: %w", err)
	}
	return s.Get(ctx, m.ID)
}

func (s *modelService) List(ctx context.Context) ([]*domain.ProcessModel, error) {
	models, err := s.models.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range models {
		if m.Steps, err = s.models.ListSteps(ctx, m.ID); err != nil {
			return nil, err
		}
	}
	return models, nil
}

func (s *modelService) CreateTrade(ctx context.Context, name, color string) (*domain.Trade, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &app.FieldError{Field: "name", Message: "required"}
	}
	t := &domain.Trade{ID: uuid.New().String(), Name: name, Color: strings.TrimSpace(color)}
	if err := s.trades.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *modelService) ListTrades(ctx context.Context) ([]*domain.Trade, error) {
	return s.trades.List(ctx)
}
