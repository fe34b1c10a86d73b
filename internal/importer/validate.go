package importer

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// ValidateImportSchema checks the import schema for errors before conversion.
// Returns a slice of all validation errors found.
func ValidateImportSchema(schema *ImportSchema) []error {
	var errs []error

	errs = append(errs, validateProject(schema.Project)...)
	errs = append(errs, validateDefaults(schema.Defaults)...)
	errs = append(errs, validateTrades(schema.Trades)...)
	errs = append(errs, validateModels(schema.Models)...)

	if len(schema.Structure) > 0 && schema.Project == nil {
		errs = append(errs, fmt.Errorf("structure requires a project section"))
	}
	errs = append(errs, validateStructure(schema.Structure)...)

	return errs
}

func validateProject(p *ProjectImport) []error {
	if p == nil {
		return nil
	}
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, fmt.Errorf("project.name is required"))
	}
	errs = append(errs, validateOptionalDate("project.start_date", p.StartDate)...)
	return errs
}

func validateDefaults(d *DefaultsImport) []error {
	if d == nil {
		return nil
	}
	if d.DurationDays != nil && *d.DurationDays < 0 {
		return []error{fmt.Errorf("defaults.duration_days must not be negative")}
	}
	return nil
}

func validateTrades(trades []TradeImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, t := range trades {
		prefix := fmt.Sprintf("trades[%d]", i)
		name := strings.TrimSpace(t.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if seen[name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate trade %q", prefix, name))
		} else {
			seen[name] = true
		}
	}
	return errs
}

func validateModels(models []ModelImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, m := range models {
		prefix := fmt.Sprintf("models[%d]", i)
		name := strings.TrimSpace(m.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		} else if seen[name] {
			errs = append(errs, fmt.Errorf("%s.name: duplicate model %q", prefix, name))
		} else {
			seen[name] = true
		}

		if len(m.Steps) == 0 {
			errs = append(errs, fmt.Errorf("%s.steps: at least one step is required", prefix))
		}
		for j, st := range m.Steps {
			stepPrefix := fmt.Sprintf("%s.steps[%d]", prefix, j)
			if strings.TrimSpace(st.Activity) == "" {
				errs = append(errs, fmt.Errorf("%s.activity is required", stepPrefix))
			}
			if st.DurationDays != nil && *st.DurationDays < 0 {
				errs = append(errs, fmt.Errorf("%s.duration_days must not be negative", stepPrefix))
			}
		}
	}
	return errs
}

func validateStructure(nodes []NodeImport) []error {
	var errs []error
	levels := make(map[string]domain.Level)

	for i, n := range nodes {
		prefix := fmt.Sprintf("structure[%d]", i)

		if n.Ref == "" {
			errs = append(errs, fmt.Errorf("%s.ref is required", prefix))
		} else if _, dup := levels[n.Ref]; dup {
			errs = append(errs, fmt.Errorf("%s.ref: duplicate ref %q", prefix, n.Ref))
		}

		if strings.TrimSpace(n.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		level := domain.Level(n.Level)
		if n.Level == "" {
			errs = append(errs, fmt.Errorf("%s.level is required", prefix))
		} else if !domain.ValidLevels[n.Level] {
			errs = append(errs, fmt.Errorf("%s.level: invalid value %q", prefix, n.Level))
		} else {
			errs = append(errs, validateParent(prefix, level, n.ParentRef, levels)...)
		}

		errs = append(errs, validateOptionalDate(prefix+".planned_start", n.PlannedStart)...)

		if n.Ref != "" {
			if _, dup := levels[n.Ref]; !dup {
				levels[n.Ref] = level
			}
		}
	}
	return errs
}

func validateParent(prefix string, level domain.Level, parentRef *string, levels map[string]domain.Level) []error {
	hasParent := parentRef != nil && *parentRef != ""
	if level == domain.LevelBuilding {
		if hasParent {
			return []error{fmt.Errorf("%s.parent_ref: a building has no parent", prefix)}
		}
		return nil
	}
	if !hasParent {
		return []error{fmt.Errorf("%s.parent_ref is required for a %s", prefix, level)}
	}
	parentLevel, ok := levels[*parentRef]
	if !ok {
		return []error{fmt.Errorf("%s.parent_ref: ref %q not found (must appear earlier in structure list)", prefix, *parentRef)}
	}
	if parentLevel != level.Parent() {
		return []error{fmt.Errorf("%s.parent_ref: a %s must hang off a %s, not a %s", prefix, level, level.Parent(), parentLevel)}
	}
	return nil
}

func validateOptionalDate(field string, dateStr *string) []error {
	if dateStr == nil || *dateStr == "" {
		return nil
	}
	if _, err := domain.ParseDate(*dateStr); err != nil || len(*dateStr) != len(domain.DateLayout) {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *dateStr)}
	}
	return nil
}
