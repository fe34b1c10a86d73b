package formatter

import (
	"strings"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/domain"
)

// FormatStructureTree renders building → staircase → floor → unit nodes.
// modelNames maps process model id to name for the detail badge; a node
// without its own model shows nothing.
func FormatStructureTree(roots []*app.TreeNode, modelNames map[string]string) string {
	if len(roots) == 0 {
		return Dim("No structure yet.") + "\n"
	}
	var items []TreeItem
	var walk func(nodes []*app.TreeNode, level int, last []bool)
	walk = func(nodes []*app.TreeNode, level int, last []bool) {
		for i, n := range nodes {
			path := append(append([]bool(nil), last...), i == len(nodes)-1)
			items = append(items, TreeItem{
				Title:  n.Node.Name,
				Kind:   nodeKind(n.Node),
				Level:  level,
				Last:   path,
				Detail: nodeDetail(n.Node, modelNames),
			})
			walk(n.Children, level+1, path)
		}
	}
	walk(roots, 0, nil)
	return RenderTree(items)
}

func nodeKind(n *domain.StructuralUnit) string {
	parts := []string{strings.ToLower(n.Level.Label())}
	if n.PlannedStart != nil {
		parts = append(parts, "from "+n.PlannedStart.Format(domain.DateLayout))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func nodeDetail(n *domain.StructuralUnit, modelNames map[string]string) string {
	if n.ProcessModelID == nil {
		return ""
	}
	if name, ok := modelNames[*n.ProcessModelID]; ok {
		return name
	}
	return "model " + (*n.ProcessModelID)[:min(8, len(*n.ProcessModelID))]
}
