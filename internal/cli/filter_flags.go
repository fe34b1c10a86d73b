package cli

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/spf13/pflag"
)

// taskFilterFlags binds the task selection flags shared by list, bulk and shift.
type taskFilterFlags struct {
	tasks      []string
	units      []string
	trades     []string
	statuses   []string
	from, to   string
	delayed    bool
	match      string
	activities []string
	unitNames  []string
	floors     []string
	staircases []string
	buildings  []string
	models     []string
}

func (f *taskFilterFlags) register(fl *pflag.FlagSet) {
	fl.StringSliceVar(&f.tasks, "task", nil, "Task ids")
	fl.StringSliceVar(&f.units, "unit", nil, "Unit ids or paths")
	fl.StringSliceVar(&f.trades, "trade", nil, "Trade names")
	fl.StringSliceVar(&f.statuses, "status", nil, "open|in_progress|done")
	fl.StringVar(&f.from, "from", "", "Only tasks planned to end on or after this date")
	fl.StringVar(&f.to, "to", "", "Only tasks planned to start on or before this date")
	fl.BoolVar(&f.delayed, "delayed", false, "Only tasks past their planned end")
	fl.StringVar(&f.match, "match", "", "Activity name contains this text")
	fl.StringSliceVar(&f.activities, "activity", nil, "Exact activity names")
	fl.StringSliceVar(&f.unitNames, "unit-name", nil, "Unit names")
	fl.StringSliceVar(&f.floors, "floor", nil, "Floor names")
	fl.StringSliceVar(&f.staircases, "staircase", nil, "Staircase names")
	fl.StringSliceVar(&f.buildings, "building", nil, "Building names")
	fl.StringSliceVar(&f.models, "model", nil, "Process model names")
}

// build turns the flags into a domain filter, resolving unit references
// within the project.
func (f *taskFilterFlags) build(ctx context.Context, a *App, projectID string, now time.Time) (domain.TaskFilter, error) {
	filter := domain.TaskFilter{
		TaskIDs:        trimAll(f.tasks),
		Trades:         trimAll(f.trades),
		Delayed:        f.delayed,
		ActivityMatch:  strings.TrimSpace(f.match),
		Activities:     trimAll(f.activities),
		UnitNames:      trimAll(f.unitNames),
		FloorNames:     trimAll(f.floors),
		StaircaseNames: trimAll(f.staircases),
		BuildingNames:  trimAll(f.buildings),
		ProcessModels:  trimAll(f.models),
	}
	for _, s := range trimAll(f.statuses) {
		filter.Statuses = append(filter.Statuses, domain.TaskStatus(strings.ToLower(s)))
	}
	var err error
	if filter.From, err = parseDateFlag("from", f.from, now); err != nil {
		return filter, err
	}
	if filter.To, err = parseDateFlag("to", f.to, now); err != nil {
		return filter, err
	}
	if units := trimAll(f.units); len(units) > 0 {
		if filter.UnitIDs, err = resolveNodeIDs(ctx, a, projectID, units); err != nil {
			return filter, err
		}
	}
	return filter, filter.Validate()
}

func trimAll(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
