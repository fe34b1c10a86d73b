// Package hierarchy walks the structural parent chain of a unit to find
// inherited settings such as the process model and planned start.
package hierarchy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// NodeSource loads structural nodes by id.
type NodeSource interface {
	GetByID(ctx context.Context, id string) (*domain.StructuralUnit, error)
}

// ModelSource loads a process model together with its steps.
type ModelSource interface {
	GetWithSteps(ctx context.Context, id string) (*domain.ProcessModel, error)
}

// Resolver caches nodes and models for the lifetime of one operation.
// It is not safe for concurrent use.
type Resolver struct {
	nodes  NodeSource
	models ModelSource

	nodeCache  map[string]*domain.StructuralUnit
	modelCache map[string]*domain.ProcessModel
}

func NewResolver(nodes NodeSource, models ModelSource) *Resolver {
	return &Resolver{
		nodes:      nodes,
		models:     models,
		nodeCache:  make(map[string]*domain.StructuralUnit),
		modelCache: make(map[string]*domain.ProcessModel),
	}
}

// Chain returns the node and its ancestors, nearest first, bounded by
// domain.MaxDepth. A dangling parent link ends the chain.
func (r *Resolver) Chain(ctx context.Context, nodeID string) ([]*domain.StructuralUnit, error) {
	chain := make([]*domain.StructuralUnit, 0, domain.MaxDepth)
	id := nodeID
	for depth := 0; depth < domain.MaxDepth && id != ""; depth++ {
		node, err := r.node(ctx, id)
		if err != nil {
			if depth > 0 && errors.Is(err, domain.ErrNotFound) {
				break
			}
			return nil, fmt.Errorf("loading structural node %s: %w", id, err)
		}
		chain = append(chain, node)
		if node.ParentID == nil {
			break
		}
		id = *node.ParentID
	}
	return chain, nil
}

// Resolve returns the process model of the nearest node in the chain that
// sets one, or nil when no level does. A model id pointing at a deleted
// model counts as unset.
func (r *Resolver) Resolve(ctx context.Context, unitID string) (*domain.ProcessModel, error) {
	chain, err := r.Chain(ctx, unitID)
	if err != nil {
		return nil, err
	}
	for _, node := range chain {
		if node.ProcessModelID == nil || *node.ProcessModelID == "" {
			continue
		}
		model, err := r.model(ctx, *node.ProcessModelID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return nil, fmt.Errorf("loading process model %s: %w", *node.ProcessModelID, err)
		}
		return model, nil
	}
	return nil, nil
}

// PlannedStart returns the nearest planned start in the chain.
func PlannedStart(chain []*domain.StructuralUnit) *time.Time {
	for _, node := range chain {
		if node.PlannedStart != nil {
			return node.PlannedStart
		}
	}
	return nil
}

// LocationPath renders the chain top-down, e.g.
// "Building A - Staircase 1 - Floor 2 - Unit 5".
func LocationPath(chain []*domain.StructuralUnit) string {
	parts := make([]string, 0, len(chain))
	for i := len(chain) - 1; i >= 0; i-- {
		parts = append(parts, chain[i].Name)
	}
	return domain.JoinLocation(parts...)
}

func (r *Resolver) node(ctx context.Context, id string) (*domain.StructuralUnit, error) {
	if n, ok := r.nodeCache[id]; ok {
		return n, nil
	}
	n, err := r.nodes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.nodeCache[id] = n
	return n, nil
}

func (r *Resolver) model(ctx context.Context, id string) (*domain.ProcessModel, error) {
	if m, ok := r.modelCache[id]; ok {
		return m, nil
	}
	m, err := r.models.GetWithSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	r.modelCache[id] = m
	return m, nil
}
