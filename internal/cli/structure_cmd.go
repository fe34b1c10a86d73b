package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/spf13/cobra"
)

func newStructureCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "structure",
		Aliases: []string{"struct"},
		Short:   "Manage buildings, staircases, floors and units",
	}

	cmd.AddCommand(
		newStructureAddCmd(a),
		newStructureTreeCmd(a),
		newStructureRenameCmd(a),
		newStructureSetModelCmd(a),
		newStructureSetStartCmd(a),
		newStructureRemoveCmd(a),
	)

	return cmd
}

func newStructureAddCmd(a *App) *cobra.Command {
	var projectFlag, level, parent, name, start, model string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a structural node below its parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, projectFlag)
			if err != nil {
				return err
			}
			req := app.CreateNodeRequest{
				ProjectID: projectID,
				Level:     domain.Level(strings.ToLower(strings.TrimSpace(level))),
				Name:      name,
				Actor:     a.Actor,
			}
			if parent != "" {
				if req.ParentID, err = resolveNodeID(ctx, a, projectID, parent); err != nil {
					return err
				}
			}
			if req.PlannedStart, err = parseDateFlag("start", start, a.now()); err != nil {
				return err
			}
			if model != "" {
				modelID, err := resolveModelID(ctx, a, model)
				if err != nil {
					return err
				}
				req.ProcessModelID = &modelID
			}
			n, err := a.Structure.Create(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", n.Level, n.Name, n.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	cmd.Flags().StringVar(&level, "level", "", "building|staircase|floor|unit")
	cmd.Flags().StringVar(&parent, "parent", "", "Parent node id or path (required below building)")
	cmd.Flags().StringVar(&name, "name", "", "Node name")
	cmd.Flags().StringVar(&start, "start", "", "Planned start date")
	cmd.Flags().StringVar(&model, "model", "", "Process model id or name")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("level")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newStructureTreeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tree PROJECT",
		Short: "Show the structure of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := resolveProjectID(cmd.Context(), a, args[0])
			if err != nil {
				return err
			}
			tree, err := renderStructure(cmd, a, projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), tree)
			return nil
		},
	}
}

// nodeCommand wires the shared --project flag and NODE argument resolution
// of the per-node subcommands.
func nodeCommand(a *App, use, short string, run func(cmd *cobra.Command, nodeID string) error) *cobra.Command {
	var projectFlag string
	cmd := &cobra.Command{
		Use:   use + " NODE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, projectFlag)
			if err != nil {
				return err
			}
			nodeID, err := resolveNodeID(ctx, a, projectID, args[0])
			if err != nil {
				return err
			}
			return run(cmd, nodeID)
		},
	}
	cmd.Flags().StringVar(&projectFlag, "project", "", "Project id or name")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func printNodeResult(cmd *cobra.Command, res *app.UpdateNodeResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s %s  %s\n", formatter.LevelBadge(res.Node.Level), formatter.Bold(res.Node.Name),
		formatter.OutcomeBadge(res.Outcome == app.OutcomeAppliedAndLogged))
	if !res.Changes.Empty() {
		fmt.Fprint(out, formatter.FormatChanges(res.Changes))
	}
	if res.Propagated > 0 {
		fmt.Fprintf(out, "  %s\n", formatter.Dim("propagated to "+formatter.Plural(res.Propagated, "descendant", "descendants")))
	}
}

func newStructureRenameCmd(a *App) *cobra.Command {
	var name string
	cmd := nodeCommand(a, "rename", "Rename a structural node", func(cmd *cobra.Command, nodeID string) error {
		n := strings.TrimSpace(name)
		res, err := a.Structure.Update(cmd.Context(), app.UpdateNodeRequest{ID: nodeID, Name: &n, Actor: a.Actor})
		if err != nil {
			return err
		}
		printNodeResult(cmd, res)
		return nil
	})
	cmd.Flags().StringVar(&name, "name", "", "New name")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newStructureSetModelCmd(a *App) *cobra.Command {
	var model string
	var clearModel, propagate bool
	cmd := nodeCommand(a, "set-model", "Override the process model of a node", func(cmd *cobra.Command, nodeID string) error {
		ctx := cmd.Context()
		var modelID *string
		if !clearModel {
			if model == "" {
				return fmt.Errorf("either --model or --clear is required: %w", domain.ErrValidation)
			}
			id, err := resolveModelID(ctx, a, model)
			if err != nil {
				return err
			}
			modelID = &id
		}
		res, err := a.Structure.SetProcessModel(ctx, nodeID, modelID, propagate, a.Actor)
		if err != nil {
			return err
		}
		printNodeResult(cmd, res)
		return nil
	})
	cmd.Flags().StringVar(&model, "model", "", "Process model id or name")
	cmd.Flags().BoolVar(&clearModel, "clear", false, "Remove the override so the parent's model applies")
	cmd.Flags().BoolVar(&propagate, "propagate", false, "Copy the result to every descendant")
	cmd.MarkFlagsMutuallyExclusive("model", "clear")
	return cmd
}

func newStructureSetStartCmd(a *App) *cobra.Command {
	var date string
	var clearDate bool
	cmd := nodeCommand(a, "set-start", "Set the planned start date of a node", func(cmd *cobra.Command, nodeID string) error {
		var d *time.Time
		if !clearDate {
			var err error
			if d, err = parseDateFlag("date", date, a.now()); err != nil {
				return err
			}
			if d == nil {
				return fmt.Errorf("either --date or --clear is required: %w", domain.ErrValidation)
			}
		}
		res, err := a.Structure.SetPlannedStart(cmd.Context(), nodeID, d, a.Actor)
		if err != nil {
			return err
		}
		printNodeResult(cmd, res)
		return nil
	})
	cmd.Flags().StringVar(&date, "date", "", "Planned start date")
	cmd.Flags().BoolVar(&clearDate, "clear", false, "Remove the planned start")
	cmd.MarkFlagsMutuallyExclusive("date", "clear")
	return cmd
}

func newStructureRemoveCmd(a *App) *cobra.Command {
	var yes bool
	cmd := nodeCommand(a, "remove", "Delete a node, its descendants and their tasks", func(cmd *cobra.Command, nodeID string) error {
		ctx := cmd.Context()
		loc, err := a.Structure.Location(ctx, nodeID)
		if err != nil {
			return err
		}
		if err := confirmDestructive(a, yes, fmt.Sprintf("Delete %s with everything below it?", loc)); err != nil {
			return err
		}
		if err := a.Structure.Delete(ctx, nodeID, a.Actor); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", loc)
		return nil
	})
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}
