package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newProjectCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(a),
		newProjectListCmd(a),
		newProjectShowCmd(a),
		newProjectUpdateCmd(a),
		newProjectRemoveCmd(a),
		newProjectImportCmd(a),
	)

	return cmd
}

func newProjectAddCmd(a *App) *cobra.Command {
	var name, start string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := parseDateFlag("start", start, a.now())
			if err != nil {
				return err
			}
			p, err := a.Projects.Create(cmd.Context(), name, startDate, a.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&start, "start", "", "Start date, used as the default anchor for sync")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.Projects.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show PROJECT",
		Short: "Show a project and its structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			p, err := a.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			tree, err := renderStructure(cmd, a, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProject(p, tree))
			return nil
		},
	}
}

func newProjectUpdateCmd(a *App) *cobra.Command {
	var name, start string
	var clearStart bool

	cmd := &cobra.Command{
		Use:   "update PROJECT",
		Short: "Rename a project or change its start date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			req := app.ProjectUpdateRequest{ID: id, ClearStartDate: clearStart, Actor: a.Actor}
			if cmd.Flags().Changed("name") {
				n := strings.TrimSpace(name)
				req.Name = &n
			}
			if req.StartDate, err = parseDateFlag("start", start, a.now()); err != nil {
				return err
			}
			_, changes, err := a.Projects.Update(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatChanges(changes))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New project name")
	cmd.Flags().StringVar(&start, "start", "", "New start date")
	cmd.Flags().BoolVar(&clearStart, "clear-start", false, "Remove the start date")
	cmd.MarkFlagsMutuallyExclusive("start", "clear-start")

	return cmd
}

func newProjectRemoveCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove PROJECT",
		Short: "Delete a project with its structure and tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			p, err := a.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if err := confirmDestructive(a, yes, fmt.Sprintf("Delete project %q and all its tasks?", p.Name)); err != nil {
				return err
			}
			if err := a.Projects.Delete(ctx, id, a.Actor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newProjectImportCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import trades, process models and a project structure from a JSON, TOML or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.Import.ImportFile(cmd.Context(), args[0], a.Actor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported %s, %s",
				formatter.Plural(res.Trades, "trade", "trades"),
				formatter.Plural(len(res.Models), "process model", "process models"))
			if res.Project != nil {
				fmt.Fprintf(out, ", project %s with %s", res.Project.Name, formatter.Plural(res.NodeCount, "node", "nodes"))
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}

// renderStructure formats the project's structure tree with model names.
func renderStructure(cmd *cobra.Command, a *App, projectID string) (string, error) {
	ctx := cmd.Context()
	tree, err := a.Structure.Tree(ctx, projectID)
	if err != nil {
		return "", err
	}
	models, err := a.Models.List(ctx)
	if err != nil {
		return "", err
	}
	names := make(map[string]string, len(models))
	for _, m := range models {
		names[m.ID] = m.Name
	}
	return formatter.FormatStructureTree(tree, names), nil
}
