package domain

import "time"

// StructuralUnit is one node of the building → staircase → floor → unit
// hierarchy. Buildings have no ParentID; every other level points to exactly
// one node of the level above.
type StructuralUnit struct {
	ID             string
	ProjectID      string
	Level          Level
	ParentID       *string
	Name           string
	PlannedStart   *time.Time
	ProcessModelID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Fields returns the diffable attributes of the node.
func (s *StructuralUnit) Fields() map[string]any {
	return map[string]any{
		"name":             s.Name,
		"planned_start":    s.PlannedStart,
		"process_model_id": s.ProcessModelID,
	}
}

// Trade is a craft or contractor category a process step belongs to.
type Trade struct {
	ID    string
	Name  string
	Color string
}
