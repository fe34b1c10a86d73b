package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/audit"
	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/scheduler"
)

type shiftService struct {
	uow      db.UnitOfWork
	audit    audit.Sink
	clock    Clock
	observer UseCaseObserver
}

func NewShiftService(uow db.UnitOfWork, sink audit.Sink, clock Clock, observers ...UseCaseObserver) ShiftService {
	return &shiftService{
		uow:      uow,
		audit:    sinkOrNop(sink),
		clock:    clockOrReal(clock),
		observer: useCaseObserverOrNoop(observers),
	}
}

type movedTask struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

func (s *shiftService) ShiftWindow(ctx context.Context, req app.ShiftRequest) (result *app.ShiftResult, err error) {
	startedAt := time.Now()
	fields := map[string]any{
		"project_id":    req.ProjectID,
		"window_start":  req.WindowStart.Format(domain.DateLayout),
		"window_end":    req.WindowEnd.Format(domain.DateLayout),
		"skip_weekends": req.SkipWeekends,
	}
	defer observe(ctx, s.observer, "shift_window", startedAt, fields, &err)

	baseDetails := func() audit.Details {
		return audit.Details{
			"project_id":    req.ProjectID,
			"start":         req.WindowStart.Format(domain.DateLayout),
			"end":           req.WindowEnd.Format(domain.DateLayout),
			"skip_weekends": req.SkipWeekends,
		}
	}

	days, err := scheduler.WindowDays(req.WindowStart, req.WindowEnd)
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, "task.schedule.shift_window", err, baseDetails())
		return nil, err
	}
	if err = req.Filter.Validate(); err != nil {
		logFailure(ctx, s.audit, req.Actor, "task.schedule.shift_window", err, baseDetails())
		return nil, err
	}

	now := nowFrom(s.clock, req.Now)
	today := domain.DateOf(now)
	result = &app.ShiftResult{DaysShifted: days}
	var moved []movedTask

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := newTxRepos(tx)
		if _, err := repos.projects.GetByID(ctx, req.ProjectID); err != nil {
			return fmt.Errorf("shift window: %w", err)
		}

		tasks, err := repos.tasks.ListDetailed(ctx, req.ProjectID, req.Filter, today)
		if err != nil {
			return err
		}
		for _, d := range tasks {
			if !d.HasPlannedRange() {
				continue
			}
			if !scheduler.Overlaps(*d.StartPlanned, *d.EndPlanned, req.WindowStart, req.WindowEnd) {
				continue
			}
			start := scheduler.ShiftDate(*d.StartPlanned, days, req.SkipWeekends)
			end := scheduler.ShiftDate(*d.EndPlanned, days, req.SkipWeekends)
			t := d.Task
			t.StartPlanned = &start
			t.EndPlanned = &end
			t.UpdatedAt = now
			if err := repos.tasks.Update(ctx, &t); err != nil {
				return err
			}
			result.MovedIDs = append(result.MovedIDs, t.ID)
			moved = append(moved, movedTask{ID: t.ID, Name: d.Activity, Location: d.Location()})
		}
		result.Moved = len(result.MovedIDs)
		return nil
	})
	if err != nil {
		logFailure(ctx, s.audit, req.Actor, "task.schedule.shift_window", err, baseDetails())
		return nil, err
	}

	fields["moved"] = result.Moved
	fields["days_shifted"] = days

	if result.Moved > 0 {
		details := baseDetails()
		details["moved"] = result.Moved
		details["days_shifted"] = days
		details["tasks"] = moved
		s.audit.Log(ctx, audit.Entry{
			Actor:      req.Actor,
			Action:     "task.schedule.shift_window",
			OK:         true,
			StatusCode: 200,
			Details:    details,
		})
	}
	return result, nil
}
