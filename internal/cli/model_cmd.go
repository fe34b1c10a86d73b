package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/spf13/cobra"
)

const stepSpecHelp = `Step as ACTIVITY[:DAYS[:TRADE[:parallel]]], repeatable, in order`

// parseStepSpec decodes ACTIVITY[:DAYS[:TRADE[:parallel]]].
func parseStepSpec(spec string) (app.StepInput, error) {
	parts := strings.Split(spec, ":")
	if len(parts) > 4 {
		return app.StepInput{}, fmt.Errorf("step %q: too many fields: %w", spec, domain.ErrValidation)
	}
	in := app.StepInput{Activity: strings.TrimSpace(parts[0]), DurationDays: 1}
	if len(parts) > 1 && strings.TrimSpace(parts[1]) != "" {
		days, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return app.StepInput{}, fmt.Errorf("step %q: days must be a number: %w", spec, domain.ErrValidation)
		}
		in.DurationDays = days
	}
	if len(parts) > 2 {
		in.Trade = strings.TrimSpace(parts[2])
	}
	if len(parts) > 3 {
		switch strings.ToLower(strings.TrimSpace(parts[3])) {
		case "parallel", "p":
			in.Parallel = true
		case "", "sequential", "s":
		default:
			return app.StepInput{}, fmt.Errorf("step %q: expected \"parallel\", got %q: %w", spec, parts[3], domain.ErrValidation)
		}
	}
	return in, nil
}

func parseStepSpecs(specs []string) ([]app.StepInput, error) {
	steps := make([]app.StepInput, 0, len(specs))
	for _, s := range specs {
		in, err := parseStepSpec(s)
		if err != nil {
			return nil, err
		}
		steps = append(steps, in)
	}
	return steps, nil
}

func newModelCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage process models",
	}

	cmd.AddCommand(
		newModelAddCmd(a),
		newModelListCmd(a),
		newModelShowCmd(a),
		newModelReplaceCmd(a),
		newModelRemoveCmd(a),
		newModelImportCmd(a),
	)

	return cmd
}

func newModelAddCmd(a *App) *cobra.Command {
	var name string
	var specs []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a process model",
		Example: `  taktplan model add --name Apartment \
    --step "Drywall:3:Drywall" --step "Electrics:2:Electrician:parallel" --step "Painting:2:Painter"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			steps, err := parseStepSpecs(specs)
			if err != nil {
				return err
			}
			m, err := a.Models.Create(cmd.Context(), app.ModelInput{Name: name, Steps: steps}, a.Actor)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created process model %s with %s\n", m.Name, formatter.Plural(len(m.Steps), "step", "steps"))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Model name")
	cmd.Flags().StringArrayVar(&specs, "step", nil, stepSpecHelp)
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newModelListCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List process models",
		RunE: func(cmd *cobra.Command, args []string) error {
			models, err := a.Models.List(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatModelList(models))
			return nil
		},
	}
}

func newModelShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show MODEL",
		Short: "Show the steps of a process model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveModelID(ctx, a, args[0])
			if err != nil {
				return err
			}
			m, err := a.Models.Get(ctx, id)
			if err != nil {
				return err
			}
			names, err := tradeNames(cmd, a)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatModel(m, names))
			return nil
		},
	}
}

func newModelReplaceCmd(a *App) *cobra.Command {
	var name string
	var specs []string

	cmd := &cobra.Command{
		Use:   "replace MODEL",
		Short: "Replace the steps of a process model",
		Long: `Replace the step list of a process model. A step whose activity matches an
existing step keeps that step, so its tasks survive; steps left out are
deleted together with their tasks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveModelID(ctx, a, args[0])
			if err != nil {
				return err
			}
			current, err := a.Models.Get(ctx, id)
			if err != nil {
				return err
			}
			steps, err := parseStepSpecs(specs)
			if err != nil {
				return err
			}
			matchExistingSteps(current, steps)

			in := app.ModelInput{Name: current.Name, Steps: steps}
			if cmd.Flags().Changed("name") {
				in.Name = name
			}
			res, err := a.Models.ReplaceSteps(ctx, id, in, a.Actor)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d created, %d updated, %d deleted\n", res.Created, res.Updated, res.Deleted)
			fmt.Fprint(out, formatter.FormatChanges(res.Changes))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New model name")
	cmd.Flags().StringArrayVar(&specs, "step", nil, stepSpecHelp)
	_ = cmd.MarkFlagRequired("step")

	return cmd
}

// matchExistingSteps carries the id of an existing step over to the first
// input with the same activity.
func matchExistingSteps(current *domain.ProcessModel, steps []app.StepInput) {
	byActivity := make(map[string]string, len(current.Steps))
	for _, s := range current.Steps {
		key := strings.ToLower(s.Activity)
		if _, dup := byActivity[key]; !dup {
			byActivity[key] = s.ID
		}
	}
	for i := range steps {
		key := strings.ToLower(steps[i].Activity)
		if id, ok := byActivity[key]; ok {
			steps[i].ID = id
			delete(byActivity, key)
		}
	}
}

func newModelRemoveCmd(a *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "remove MODEL",
		Short: "Delete a process model and the tasks generated from it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveModelID(ctx, a, args[0])
			if err != nil {
				return err
			}
			m, err := a.Models.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := confirmDestructive(a, yes, fmt.Sprintf("Delete process model %q?", m.Name)); err != nil {
				return err
			}
			if err := a.Models.Delete(ctx, id, a.Actor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted process model %s\n", m.Name)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newModelImportCmd(a *App) *cobra.Command {
	cmd := newProjectImportCmd(a)
	cmd.Short = "Import process models (and optionally trades and a project) from a file"
	return cmd
}

func tradeNames(cmd *cobra.Command, a *App) (map[string]string, error) {
	trades, err := a.Models.ListTrades(cmd.Context())
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(trades))
	for _, t := range trades {
		names[t.ID] = t.Name
	}
	return names, nil
}

func newTradeCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trade",
		Short: "Manage trades",
	}

	var name, color string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a trade",
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.Models.CreateTrade(cmd.Context(), name, color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created trade %s\n", t.Name)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Trade name")
	add.Flags().StringVar(&color, "color", "", "Display color, e.g. #aa0000")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List trades",
		RunE: func(cmd *cobra.Command, args []string) error {
			trades, err := a.Models.ListTrades(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTradeList(trades))
			return nil
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
