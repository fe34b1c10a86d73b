package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/spf13/cobra"
)

func newTaskCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Inspect and update tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(a),
		newTaskShowCmd(a),
		newTaskUpdateCmd(a),
		newTaskBulkCmd(a),
		newTaskDeleteCmd(a),
		newTaskAnswersCmd(a),
	)

	return cmd
}

// resolveTaskID accepts a full task id, or an id prefix when the project
// is known.
func resolveTaskID(ctx context.Context, a *App, projectRef, input string) (string, error) {
	if projectRef == "" {
		return strings.TrimSpace(input), nil
	}
	projectID, err := resolveProjectID(ctx, a, projectRef)
	if err != nil {
		return "", err
	}
	tasks, err := a.Tasks.List(ctx, projectID, domain.TaskFilter{})
	if err != nil {
		return "", err
	}
	return matchID("task", input, tasks,
		func(t *domain.TaskDetail) string { return t.ID },
		func(*domain.TaskDetail) string { return "" })
}

func newTaskListCmd(a *App) *cobra.Command {
	var filter taskFilterFlags

	cmd := &cobra.Command{
		Use:   "list PROJECT",
		Short: "List the tasks of a project in schedule order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := a.now()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			f, err := filter.build(ctx, a, projectID, now)
			if err != nil {
				return err
			}
			tasks, err := a.Tasks.List(ctx, projectID, f)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(tasks, now))
			return nil
		},
	}

	filter.register(cmd.Flags())
	return cmd
}

func newTaskShowCmd(a *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "show TASK",
		Short: "Show a task with its checklist answers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, projectRef, args[0])
			if err != nil {
				return err
			}
			t, err := a.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			answers, err := a.Tasks.ListCheckAnswers(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTask(t, answers, a.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project, to allow a task id prefix")
	return cmd
}

func newTaskUpdateCmd(a *App) *cobra.Command {
	var projectRef string
	var startPlanned, endPlanned, startActual, endActual string
	var status, assignee, note string
	var clearStartActual, clearEndActual, clearAssignee bool

	cmd := &cobra.Command{
		Use:   "update TASK",
		Short: "Change dates, status, assignee or note of one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := a.now()
			id, err := resolveTaskID(ctx, a, projectRef, args[0])
			if err != nil {
				return err
			}
			req := app.TaskUpdateRequest{
				TaskID:           id,
				ClearStartActual: clearStartActual,
				ClearEndActual:   clearEndActual,
				ClearAssignee:    clearAssignee,
				Actor:            a.Actor,
			}
			for _, d := range []struct {
				flag, value string
				dst         **time.Time
			}{
				{"start-planned", startPlanned, &req.StartPlanned},
				{"end-planned", endPlanned, &req.EndPlanned},
				{"start-actual", startActual, &req.StartActual},
				{"end-actual", endActual, &req.EndActual},
			} {
				if *d.dst, err = parseDateFlag(d.flag, d.value, now); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("status") {
				s := domain.TaskStatus(strings.ToLower(strings.TrimSpace(status)))
				req.Status = &s
			}
			if cmd.Flags().Changed("assignee") {
				req.AssigneeID = &assignee
			}
			if cmd.Flags().Changed("note") {
				req.Description = &note
			}

			res, err := a.Tasks.Update(ctx, req)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s\n", formatter.TruncID(res.Task.ID), formatter.OutcomeBadge(res.Outcome == app.OutcomeAppliedAndLogged))
			fmt.Fprint(out, formatter.FormatChanges(res.Changes))
			return nil
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&projectRef, "project", "", "Project, to allow a task id prefix")
	fl.StringVar(&startPlanned, "start-planned", "", "Planned start date")
	fl.StringVar(&endPlanned, "end-planned", "", "Planned end date")
	fl.StringVar(&startActual, "start-actual", "", "Actual start date")
	fl.StringVar(&endActual, "end-actual", "", "Actual end date")
	fl.BoolVar(&clearStartActual, "clear-start-actual", false, "Remove the actual start")
	fl.BoolVar(&clearEndActual, "clear-end-actual", false, "Remove the actual end")
	fl.StringVar(&status, "status", "", "open|in_progress|done (derived from actual dates when omitted)")
	fl.StringVar(&assignee, "assignee", "", "Assignee id")
	fl.BoolVar(&clearAssignee, "clear-assignee", false, "Remove the assignee")
	fl.StringVar(&note, "note", "", "Task description")
	cmd.MarkFlagsMutuallyExclusive("start-actual", "clear-start-actual")
	cmd.MarkFlagsMutuallyExclusive("end-actual", "clear-end-actual")
	cmd.MarkFlagsMutuallyExclusive("assignee", "clear-assignee")

	return cmd
}

func newTaskBulkCmd(a *App) *cobra.Command {
	var filter taskFilterFlags
	var startActual, endActual, status, assignee string
	var markDone bool

	cmd := &cobra.Command{
		Use:   "bulk PROJECT",
		Short: "Apply one change to every selected task",
		Long: `Apply actual dates, status or assignee to every task selected by the filter
flags. A date may be "planned" to copy each task's own planned date.
--mark-done is shorthand for --start-actual planned --end-actual planned --status done.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := a.now()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			f, err := filter.build(ctx, a, projectID, now)
			if err != nil {
				return err
			}

			var patch domain.BulkPatch
			if markDone {
				startActual, endActual, status = app.CopyFromPlannedToken, app.CopyFromPlannedToken, string(domain.TaskDone)
			}
			if startActual != "" {
				v, err := parseBulkDate(startActual, now)
				if err != nil {
					return fmt.Errorf("--start-actual: %w", err)
				}
				patch.StartActual = &v
			}
			if endActual != "" {
				v, err := parseBulkDate(endActual, now)
				if err != nil {
					return fmt.Errorf("--end-actual: %w", err)
				}
				patch.EndActual = &v
			}
			if status != "" {
				s := domain.TaskStatus(strings.ToLower(strings.TrimSpace(status)))
				patch.Status = &s
			}
			if cmd.Flags().Changed("assignee") {
				patch.AssigneeID = &assignee
			}

			res, err := a.Tasks.BulkUpdate(ctx, app.BulkUpdateRequest{
				ProjectID: projectID,
				Filter:    f,
				Patch:     patch,
				Actor:     a.Actor,
				Now:       &now,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatBulkResult(res))
			return nil
		},
	}

	filter.register(cmd.Flags())
	fl := cmd.Flags()
	fl.StringVar(&startActual, "start-actual", "", `Actual start: a date or "planned"`)
	fl.StringVar(&endActual, "end-actual", "", `Actual end: a date or "planned"`)
	fl.StringVar(&status, "set-status", "", "New status")
	fl.StringVar(&assignee, "assignee", "", "Assignee id; empty clears")
	fl.BoolVar(&markDone, "mark-done", false, "Copy planned into actual dates and set status done")
	cmd.MarkFlagsMutuallyExclusive("mark-done", "start-actual")
	cmd.MarkFlagsMutuallyExclusive("mark-done", "end-actual")
	cmd.MarkFlagsMutuallyExclusive("mark-done", "set-status")

	return cmd
}

// parseBulkDate accepts "planned" or any date parseDateArg understands.
func parseBulkDate(s string, now time.Time) (domain.DateValue, error) {
	if strings.EqualFold(strings.TrimSpace(s), app.CopyFromPlannedToken) {
		return domain.CopyFromPlanned(), nil
	}
	d, err := parseDateArg(s, now)
	if err != nil {
		return domain.DateValue{}, err
	}
	return domain.Literal(d), nil
}

func newTaskDeleteCmd(a *App) *cobra.Command {
	var projectRef string
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete TASK",
		Short: "Delete one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, projectRef, args[0])
			if err != nil {
				return err
			}
			t, err := a.Tasks.Get(ctx, id)
			if err != nil {
				return err
			}
			if err := confirmDestructive(a, yes, fmt.Sprintf("Delete %s at %s?", t.Activity, t.Location())); err != nil {
				return err
			}
			if err := a.Tasks.Delete(ctx, id, a.Actor); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s at %s\n", t.Activity, t.Location())
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project, to allow a task id prefix")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func newTaskAnswersCmd(a *App) *cobra.Command {
	var projectRef string
	var bools, texts, images []string

	cmd := &cobra.Command{
		Use:   "answers TASK",
		Short: "List or record checklist answers of a task",
		Long: `Without answer flags, list the recorded answers. Each flag records one
answer as LABEL=VALUE; answers are append-only.`,
		Example: `  taktplan task answers 1f0c --project Tower --bool "Walls dry=yes" --text "Remark=east wall"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := resolveTaskID(ctx, a, projectRef, args[0])
			if err != nil {
				return err
			}

			var inputs []app.CheckAnswerInput
			for _, spec := range bools {
				label, value, err := splitAnswer(spec)
				if err != nil {
					return err
				}
				b, err := parseYesNo(value)
				if err != nil {
					return fmt.Errorf("--bool %q: %w", spec, err)
				}
				inputs = append(inputs, app.CheckAnswerInput{Label: label, FieldType: domain.FieldBoolean, BoolValue: &b})
			}
			for _, spec := range texts {
				label, value, err := splitAnswer(spec)
				if err != nil {
					return err
				}
				inputs = append(inputs, app.CheckAnswerInput{Label: label, FieldType: domain.FieldText, TextValue: &value})
			}
			for _, spec := range images {
				label, value, err := splitAnswer(spec)
				if err != nil {
					return err
				}
				inputs = append(inputs, app.CheckAnswerInput{Label: label, FieldType: domain.FieldImage, ImagePath: &value})
			}

			if len(inputs) > 0 {
				if _, err := a.Tasks.SaveCheckAnswers(ctx, id, inputs, a.Actor); err != nil {
					return err
				}
			}
			answers, err := a.Tasks.ListCheckAnswers(ctx, id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatCheckAnswers(answers))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project, to allow a task id prefix")
	cmd.Flags().StringArrayVar(&bools, "bool", nil, "Yes/no answer as LABEL=yes|no")
	cmd.Flags().StringArrayVar(&texts, "text", nil, "Text answer as LABEL=TEXT")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Image answer as LABEL=PATH")
	return cmd
}

func splitAnswer(spec string) (string, string, error) {
	label, value, ok := strings.Cut(spec, "=")
	if !ok {
		return "", "", fmt.Errorf("answer %q: expected LABEL=VALUE: %w", spec, domain.ErrValidation)
	}
	return strings.TrimSpace(label), strings.TrimSpace(value), nil
}

func parseYesNo(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("expected yes or no: %w", domain.ErrValidation)
	}
	return b, nil
}
