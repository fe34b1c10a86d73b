package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taktplan/internal/domain"
)

// FormatProjectList renders projects as a table.
func FormatProjectList(projects []*domain.Project) string {
	if len(projects) == 0 {
		return Dim("No projects found.")
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{TruncID(p.ID), Bold(p.Name), ShortDate(p.StartDate)})
	}
	return RenderTable([]string{"ID", "NAME", "START"}, rows)
}

// FormatProject renders one project header followed by its structure tree.
func FormatProject(p *domain.Project, tree string) string {
	var b strings.Builder
	b.WriteString(Bold(p.Name) + "\n\n")
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("ID   "), p.ID))
	b.WriteString(fmt.Sprintf("  %s  %s\n", Dim("START"), ShortDate(p.StartDate)))
	if tree != "" {
		b.WriteString("\n" + Header("Structure") + "\n" + tree)
	}
	return b.String()
}
