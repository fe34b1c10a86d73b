package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/domain"
)

// matchID picks one candidate by exact id, exact name (case-insensitive)
// or unique id prefix, in that order.
func matchID[T any](kind, input string, items []T, id func(T) string, name func(T) string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", fmt.Errorf("%s is required: %w", kind, domain.ErrValidation)
	}
	for _, it := range items {
		if id(it) == input {
			return id(it), nil
		}
	}
	var named []string
	for _, it := range items {
		if strings.EqualFold(name(it), input) {
			named = append(named, id(it))
		}
	}
	switch len(named) {
	case 1:
		return named[0], nil
	case 0:
	default:
		return "", fmt.Errorf("%s name %q is ambiguous (%d matches); use the id", kind, input, len(named))
	}
	var prefixed []string
	for _, it := range items {
		if strings.HasPrefix(id(it), input) {
			prefixed = append(prefixed, id(it))
		}
	}
	switch len(prefixed) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", kind, input, domain.ErrNotFound)
	case 1:
		return prefixed[0], nil
	default:
		return "", fmt.Errorf("%s id prefix %q is ambiguous (%d matches)", kind, input, len(prefixed))
	}
}

func resolveProjectID(ctx context.Context, a *App, input string) (string, error) {
	projects, err := a.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	return matchID("project", input, projects,
		func(p *domain.Project) string { return p.ID },
		func(p *domain.Project) string { return p.Name })
}

func resolveModelID(ctx context.Context, a *App, input string) (string, error) {
	models, err := a.Models.List(ctx)
	if err != nil {
		return "", err
	}
	return matchID("process model", input, models,
		func(m *domain.ProcessModel) string { return m.ID },
		func(m *domain.ProcessModel) string { return m.Name })
}

// resolveNodeID finds a structural node of the project by id, id prefix or
// location path ("Building A/Staircase 1/Floor 2/Unit 5").
func resolveNodeID(ctx context.Context, a *App, projectID, input string) (string, error) {
	tree, err := a.Structure.Tree(ctx, projectID)
	if err != nil {
		return "", err
	}
	type pathed struct {
		node *domain.StructuralUnit
		path string
	}
	var all []pathed
	var walk func(nodes []*app.TreeNode, prefix string)
	walk = func(nodes []*app.TreeNode, prefix string) {
		for _, n := range nodes {
			p := n.Node.Name
			if prefix != "" {
				p = prefix + "/" + p
			}
			all = append(all, pathed{node: n.Node, path: p})
			walk(n.Children, p)
		}
	}
	walk(tree, "")
	return matchID("structural node", input, all,
		func(p pathed) string { return p.node.ID },
		func(p pathed) string { return p.path })
}

// resolveNodeIDs resolves every input, failing on the first unknown one.
func resolveNodeIDs(ctx context.Context, a *App, projectID string, inputs []string) ([]string, error) {
	ids := make([]string, 0, len(inputs))
	for _, in := range inputs {
		id, err := resolveNodeID(ctx, a, projectID, in)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
