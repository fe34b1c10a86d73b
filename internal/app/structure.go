package app

import (
	"time"

	"github.com/alexanderramin/taktplan/internal/diff"
	"github.com/alexanderramin/taktplan/internal/domain"
)

// CreateNodeRequest adds a building, staircase, floor or unit. ParentID is
// required for every level except building and must point at the level above.
type CreateNodeRequest struct {
	ProjectID      string
	Level          domain.Level
	ParentID       string
	Name           string
	PlannedStart   *time.Time
	ProcessModelID *string
	Actor          string
}

// UpdateNodeRequest is a sparse patch of a structural node. With Propagate
// the resulting process model id is copied to every descendant.
type UpdateNodeRequest struct {
	ID                string
	Name              *string
	PlannedStart      *time.Time
	ClearPlannedStart bool
	ProcessModelID    *string
	ClearProcessModel bool
	Propagate         bool
	Actor             string
}

type UpdateNodeResult struct {
	Node       *domain.StructuralUnit
	Outcome    UpdateOutcome
	Changes    diff.Changes
	Propagated int
}

// TreeNode is a structural node with its children, for display.
type TreeNode struct {
	Node     *domain.StructuralUnit
	Children []*TreeNode
}
