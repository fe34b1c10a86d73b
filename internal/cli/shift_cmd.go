package cli

import (
	"fmt"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newShiftCmd(a *App) *cobra.Command {
	var start, end string
	var skipWeekends bool
	var filter taskFilterFlags

	cmd := &cobra.Command{
		Use:   "shift PROJECT",
		Short: "Push every task overlapping a blocked window back by its length",
		Long: `Shift the planned dates of every selected task that overlaps the window
[--start, --end] by the window's length in calendar days. With
--skip-weekends a shifted date landing on a weekend moves to Monday.
Actual dates are never changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now := a.now()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			windowStart, err := parseDateArg(start, now)
			if err != nil {
				return fmt.Errorf("--start: %w", err)
			}
			windowEnd, err := parseDateArg(end, now)
			if err != nil {
				return fmt.Errorf("--end: %w", err)
			}
			f, err := filter.build(ctx, a, projectID, now)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("skip-weekends") {
				skipWeekends = a.SkipWeekends
			}
			res, err := a.Shift.ShiftWindow(ctx, app.ShiftRequest{
				ProjectID:    projectID,
				Filter:       f,
				WindowStart:  windowStart,
				WindowEnd:    windowEnd,
				SkipWeekends: skipWeekends,
				Actor:        a.Actor,
				Now:          &now,
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatShiftResult(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First blocked day")
	cmd.Flags().StringVar(&end, "end", "", "Last blocked day")
	cmd.Flags().BoolVar(&skipWeekends, "skip-weekends", false, "Snap shifted dates off weekends (default from config)")
	filter.register(cmd.Flags())
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}
