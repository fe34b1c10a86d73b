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
	"github.com/alexanderramin/taktplan/internal/hierarchy"
	"github.com/alexanderramin/taktplan/internal/repository"
	"github.com/alexanderramin/taktplan/internal/scheduler"
	"github.com/google/uuid"
)

type syncService struct {
	structure repository.StructureRepo
	models    repository.ProcessModelRepo
	uow       db.UnitOfWork
	audit     audit.Sink
	clock     Clock
	observer  UseCaseObserver
}

func NewSyncService(
	structure repository.StructureRepo,
	models repository.ProcessModelRepo,
	uow db.UnitOfWork,
	sink audit.Sink,
	clock Clock,
	observers ...UseCaseObserver,
) SyncService {
	return &syncService{
		structure: structure,
		models:    models,
		uow:       uow,
		audit:     sinkOrNop(sink),
		clock:     clockOrReal(clock),
		observer:  useCaseObserverOrNoop(observers),
	}
}

// unitPlan holds the pending writes computed for one unit.
type unitPlan struct {
	creates []*domain.Task
	updates []*domain.Task
	changes []app.TaskChange
}

func (s *syncService) Sync(ctx context.Context, req app.SyncRequest) (result *app.SyncResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{"project_id": req.ProjectID, "unit_filter": len(req.UnitIDs)}
	defer observe(ctx, s.observer, "sync", startedAt, fields, &err)

	now := nowFrom(s.clock, req.Now)
	overrides := cleanOverrides(req.StartOverrides)
	result = &app.SyncResult{}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)

		project, err := repos.projects.GetByID(ctx, req.ProjectID)
		if err != nil {
			return fmt.Errorf("sync: %w", err)
		}

		units, err := repos.structure.ListUnits(ctx, project.ID, req.UnitIDs)
		if err != nil {
			return err
		}
		purge := purgeTargets(req.PurgeUnitIDs, units, overrides)

		// Every candidate is planned against its current tasks. A purge target
		// that still has tasks has no override, so it is skipped here and ends
		// up empty; one without tasks is generated from the project start.
		resolver := repos.resolver()
		var plans []unitPlan
		for _, unit := range units {
			plan, ok, err := s.planUnit(ctx, repos, resolver, project, unit, overrides, now)
			if err != nil {
				return err
			}
			if !ok {
				result.SkippedUnits++
				continue
			}
			plans = append(plans, plan)
		}

		if len(purge) > 0 {
			n, err := repos.tasks.DeleteByUnits(ctx, purge)
			if err != nil {
				return err
			}
			result.Purged = n
			result.PurgedUnitIDs = purge
		}

		for _, plan := range plans {
			for _, t := range plan.creates {
				if err := repos.tasks.Create(ctx, t); err != nil {
					return err
				}
				result.CreatedIDs = append(result.CreatedIDs, t.ID)
			}
			for _, t := range plan.updates {
				if err := repos.tasks.Update(ctx, t); err != nil {
					return err
				}
				result.UpdatedIDs = append(result.UpdatedIDs, t.ID)
			}
			result.Changes = append(result.Changes, plan.changes...)
		}
		result.Created = len(result.CreatedIDs)
		result.Updated = len(result.UpdatedIDs)
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, "task.sync", err, audit.Details{"project_id": req.ProjectID})
		return nil, err
	}

	fields["created"] = result.Created
	fields["updated"] = result.Updated
	fields["purged"] = result.Purged
	fields["skipped_units"] = result.SkippedUnits

	if result.Created+result.Updated+result.Purged > 0 {
		s.audit.Log(ctx, audit.Entry{
			Actor:      req.Actor,
			Action:     "task.sync",
			OK:         true,
			StatusCode: 200,
			Details: audit.Details{
				"project_id":      req.ProjectID,
				"unit_filter":     req.UnitIDs,
				"created":         result.Created,
				"updated":         result.Updated,
				"purged":          result.Purged,
				"created_ids":     result.CreatedIDs,
				"updated_ids":     result.UpdatedIDs,
				"purged_unit_ids": result.PurgedUnitIDs,
				"changes":         result.Changes,
			},
		})
	}
	return result, nil
}

// planUnit computes creates and updates for one unit. ok is false when the
// unit has no resolvable model or no usable anchor.
func (s *syncService) planUnit(
	ctx context.Context,
	repos txRepos,
	resolver *hierarchy.Resolver,
	project *domain.Project,
	unit *domain.StructuralUnit,
	overrides map[string]string,
	now time.Time,
) (unitPlan, bool, error) {
	var plan unitPlan

	model, err := resolver.Resolve(ctx, unit.ID)
	if err != nil {
		return plan, false, err
	}
	if model == nil {
		return plan, false, nil
	}

	existing, err := repos.tasks.ListByUnit(ctx, unit.ID)
	if err != nil {
		return plan, false, err
	}

	anchor, ok := resolveAnchor(overrides[unit.ID], len(existing) > 0, project.StartDate)
	if !ok {
		return plan, false, nil
	}

	byStep := make(map[string]*domain.Task, len(existing))
	for _, t := range existing {
		if _, dup := byStep[t.StepID]; !dup {
			byStep[t.StepID] = t
		}
	}

	chain, err := resolver.Chain(ctx, unit.ID)
	if err != nil {
		return plan, false, err
	}
	location := hierarchy.LocationPath(chain)

	for _, slot := range scheduler.PlanSteps(model, anchor) {
		t, found := byStep[slot.Step.ID]
		if !found {
			created := &domain.Task{
				ID:           uuid.New().String(),
				ProjectID:    project.ID,
				UnitID:       unit.ID,
				StepID:       slot.Step.ID,
				StartPlanned: datePtr(slot.Start),
				EndPlanned:   datePtr(slot.End),
				Status:       domain.TaskOpen,
				CreatedAt:    now,
				UpdatedAt:    now,
			}
			plan.creates = append(plan.creates, created)
			plan.changes = append(plan.changes, app.TaskChange{
				TaskID:   created.ID,
				Location: location,
				Task:     slot.Step.Activity,
				Start:    &app.DateChange{New: slot.Start.Format(domain.DateLayout)},
				End:      &app.DateChange{New: slot.End.Format(domain.DateLayout)},
			})
			continue
		}
		if t.Started() {
			continue
		}
		if sameDate(t.StartPlanned, slot.Start) && sameDate(t.EndPlanned, slot.End) {
			continue
		}

		change := app.TaskChange{TaskID: t.ID, Location: location, Task: slot.Step.Activity}
		if !sameDate(t.StartPlanned, slot.Start) {
			change.Start = &app.DateChange{Old: previousDate(t.StartPlanned), New: slot.Start.Format(domain.DateLayout)}
		}
		if !sameDate(t.EndPlanned, slot.End) {
			change.End = &app.DateChange{Old: previousDate(t.EndPlanned), New: slot.End.Format(domain.DateLayout)}
		}
		t.StartPlanned = datePtr(slot.Start)
		t.EndPlanned = datePtr(slot.End)
		t.UpdatedAt = now
		plan.updates = append(plan.updates, t)
		plan.changes = append(plan.changes, change)
	}
	return plan, true, nil
}

func (s *syncService) StartOverridesFromStructure(ctx context.Context, projectID string, unitIDs []string) (map[string]string, error) {
	units, err := s.structure.ListUnits(ctx, projectID, unitIDs)
	if err != nil {
		return nil, err
	}
	resolver := hierarchy.NewResolver(s.structure, s.models)
	out := make(map[string]string)
	for _, unit := range units {
		chain, err := resolver.Chain(ctx, unit.ID)
		if err != nil {
			return nil, err
		}
		if d := hierarchy.PlannedStart(chain); d != nil {
			out[unit.ID] = d.Format(domain.DateLayout)
		}
	}
	return out, nil
}

// resolveAnchor picks the scheduling anchor of a unit. A parsable override
// wins. Otherwise a unit that already has tasks is left alone, and a fresh
// unit falls back to the project start.
func resolveAnchor(override string, hasTasks bool, projectStart *time.Time) (time.Time, bool) {
	if override != "" {
		if d, err := domain.ParseDate(override); err == nil {
			return d, true
		}
	}
	if hasTasks {
		return time.Time{}, false
	}
	if projectStart == nil {
		return time.Time{}, false
	}
	return domain.DateOf(*projectStart), true
}

// purgeTargets keeps the requested ids that are candidates and carry no
// override, preserving request order and dropping duplicates.
func purgeTargets(requested []string, candidates []*domain.StructuralUnit, overrides map[string]string) []string {
	allowed := make(map[string]bool, len(candidates))
	for _, u := range candidates {
		allowed[u.ID] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, id := range requested {
		if !allowed[id] || seen[id] {
			continue
		}
		if _, hasOverride := overrides[id]; hasOverride {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func cleanOverrides(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for id, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out[id] = v
		}
	}
	return out
}

func previousDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(domain.DateLayout)
	return &s
}
