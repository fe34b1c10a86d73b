package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/google/uuid"
)

// Plan is a converted import file ready for persistence. Node model
// references stay as names in NodeModels until the importing service
// resolves them against the models of the file and the database.
type Plan struct {
	Project    *domain.Project
	Trades     []*domain.Trade
	Models     []app.ModelInput
	Nodes      []*domain.StructuralUnit
	NodeModels map[string]string
}

// Convert transforms a validated ImportSchema into domain objects ready for persistence.
// Call ValidateImportSchema first; Convert assumes the schema is valid.
func Convert(schema *ImportSchema) (*Plan, error) {
	now := time.Now().UTC()
	plan := &Plan{NodeModels: make(map[string]string)}

	if schema.Project != nil {
		start, err := parseOptionalDate(schema.Project.StartDate)
		if err != nil {
			return nil, fmt.Errorf("parsing project.start_date: %w", err)
		}
		plan.Project = &domain.Project{
			ID:        uuid.New().String(),
			Name:      strings.TrimSpace(schema.Project.Name),
			StartDate: start,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	for _, t := range schema.Trades {
		plan.Trades = append(plan.Trades, &domain.Trade{
			ID:    uuid.New().String(),
			Name:  strings.TrimSpace(t.Name),
			Color: strings.TrimSpace(t.Color),
		})
	}

	var defaultDuration *int
	var defaultParallel *bool
	if schema.Defaults != nil {
		defaultDuration = schema.Defaults.DurationDays
		defaultParallel = schema.Defaults.Parallel
	}
	for _, m := range schema.Models {
		in := app.ModelInput{Name: strings.TrimSpace(m.Name)}
		for _, st := range m.Steps {
			in.Steps = append(in.Steps, app.StepInput{
				Activity:     strings.TrimSpace(st.Activity),
				Trade:        strings.TrimSpace(st.Trade),
				DurationDays: domain.IntFromPtrWithDefault(1, st.DurationDays, defaultDuration),
				Order:        st.Order,
				Parallel:     domain.BoolFromPtrWithDefault(false, st.Parallel, defaultParallel),
			})
		}
		plan.Models = append(plan.Models, in)
	}

	refMap := make(map[string]string) // ref -> UUID
	for _, n := range schema.Structure {
		realID := uuid.New().String()
		refMap[n.Ref] = realID

		var parentID *string
		if n.ParentRef != nil && *n.ParentRef != "" {
			pid, ok := refMap[*n.ParentRef]
			if !ok {
				return nil, fmt.Errorf("parent_ref %q not found for node %q", *n.ParentRef, n.Ref)
			}
			parentID = &pid
		}

		planned, err := parseOptionalDate(n.PlannedStart)
		if err != nil {
			return nil, fmt.Errorf("parsing planned_start of node %q: %w", n.Ref, err)
		}

		var projectID string
		if plan.Project != nil {
			projectID = plan.Project.ID
		}
		plan.Nodes = append(plan.Nodes, &domain.StructuralUnit{
			ID:           realID,
			ProjectID:    projectID,
			Level:        domain.Level(n.Level),
			ParentID:     parentID,
			Name:         strings.TrimSpace(n.Name),
			PlannedStart: planned,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if n.Model != nil {
			if name := strings.TrimSpace(*n.Model); name != "" {
				plan.NodeModels[realID] = name
			}
		}
	}

	return plan, nil
}

func parseOptionalDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
