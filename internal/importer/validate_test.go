package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptrStr(s string) *string { return &s }
func ptrInt(i int) *int       { return &i }
func ptrBool(b bool) *bool    { return &b }

func validMinimalSchema() *ImportSchema {
	return &ImportSchema{
		Models: []ModelImport{
			{Name: "Apartment", Steps: []StepImport{{Activity: "Drywall"}}},
		},
	}
}

func validFullSchema() *ImportSchema {
	return &ImportSchema{
		Project:  &ProjectImport{Name: "Tower", StartDate: ptrStr("2024-03-04")},
		Defaults: &DefaultsImport{DurationDays: ptrInt(2)},
		Trades:   []TradeImport{{Name: "Drywall", Color: "#aa0000"}},
		Models: []ModelImport{
			{Name: "Apartment", Steps: []StepImport{
				{Activity: "Drywall", Trade: "Drywall", DurationDays: ptrInt(3)},
				{Activity: "Electrics", Trade: "Electrician", Parallel: ptrBool(true)},
				{Activity: "Painting"},
			}},
		},
		Structure: []NodeImport{
			{Ref: "a", Level: "building", Name: "Building A", Model: ptrStr("Apartment")},
			{Ref: "a1", ParentRef: ptrStr("a"), Level: "staircase", Name: "Staircase 1"},
			{Ref: "a1f2", ParentRef: ptrStr("a1"), Level: "floor", Name: "Floor 2", PlannedStart: ptrStr("2024-04-01")},
			{Ref: "u5", ParentRef: ptrStr("a1f2"), Level: "unit", Name: "Unit 5"},
		},
	}
}

func errorsContain(errs []error, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e.Error(), substr) {
			return true
		}
	}
	return false
}

func TestValidateImportSchema_ValidMinimal(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validMinimalSchema()))
}

func TestValidateImportSchema_ValidFull(t *testing.T) {
	assert.Empty(t, ValidateImportSchema(validFullSchema()))
}

func TestValidateImportSchema_ModelErrors(t *testing.T) {
	schema := &ImportSchema{
		Models: []ModelImport{
			{Name: "Apartment", Steps: []StepImport{{Activity: ""}, {Activity: "Tiling", DurationDays: ptrInt(-1)}}},
			{Name: "Apartment", Steps: []StepImport{{Activity: "X"}}},
			{Name: "Empty"},
		},
	}
	errs := ValidateImportSchema(schema)
	assert.Len(t, errs, 4)
	assert.True(t, errorsContain(errs, "models[0].steps[0].activity is required"))
	assert.True(t, errorsContain(errs, "models[0].steps[1].duration_days must not be negative"))
	assert.True(t, errorsContain(errs, `duplicate model "Apartment"`))
	assert.True(t, errorsContain(errs, "models[2].steps: at least one step is required"))
}

func TestValidateImportSchema_StructureErrors(t *testing.T) {
	tests := []struct {
		name string
		node NodeImport
		want string
	}{
		{"missing ref", NodeImport{Level: "unit", Name: "U", ParentRef: ptrStr("f")}, "ref is required"},
		{"unknown level", NodeImport{Ref: "x", Level: "wing", Name: "W"}, `level: invalid value "wing"`},
		{"building with parent", NodeImport{Ref: "x", Level: "building", Name: "B", ParentRef: ptrStr("b")}, "a building has no parent"},
		{"orphan floor", NodeImport{Ref: "x", Level: "floor", Name: "F"}, "parent_ref is required for a floor"},
		{"forward ref", NodeImport{Ref: "x", Level: "unit", Name: "U", ParentRef: ptrStr("later")}, "must appear earlier"},
		{"skipped level", NodeImport{Ref: "x", Level: "unit", Name: "U", ParentRef: ptrStr("b")}, "a unit must hang off a floor, not a building"},
		{"bad date", NodeImport{Ref: "x", Level: "building", Name: "B", PlannedStart: ptrStr("04/01/2024")}, "planned_start: invalid date format"},
		{"duplicate ref", NodeImport{Ref: "b", Level: "building", Name: "B2"}, `duplicate ref "b"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := &ImportSchema{
				Project: &ProjectImport{Name: "Tower"},
				Structure: []NodeImport{
					{Ref: "b", Level: "building", Name: "Building A"},
					tt.node,
				},
			}
			errs := ValidateImportSchema(schema)
			assert.True(t, errorsContain(errs, tt.want), "got %v", errs)
		})
	}
}

func TestValidateImportSchema_StructureNeedsProject(t *testing.T) {
	schema := &ImportSchema{Structure: []NodeImport{{Ref: "b", Level: "building", Name: "Building A"}}}
	errs := ValidateImportSchema(schema)
	assert.True(t, errorsContain(errs, "structure requires a project section"))
}

func TestValidateImportSchema_ProjectAndTrades(t *testing.T) {
	schema := &ImportSchema{
		Project:  &ProjectImport{Name: " ", StartDate: ptrStr("2024-13-01")},
		Defaults: &DefaultsImport{DurationDays: ptrInt(-2)},
		Trades:   []TradeImport{{Name: "Painter"}, {Name: "Painter"}, {Name: ""}},
	}
	errs := ValidateImportSchema(schema)
	assert.Len(t, errs, 5)
	assert.True(t, errorsContain(errs, "project.name is required"))
	assert.True(t, errorsContain(errs, "project.start_date: invalid date format"))
	assert.True(t, errorsContain(errs, "defaults.duration_days"))
	assert.True(t, errorsContain(errs, `duplicate trade "Painter"`))
	assert.True(t, errorsContain(errs, "trades[2].name is required"))
}
