package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taktplan/internal/app"
	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/spf13/cobra"
)

func newSyncCmd(a *App) *cobra.Command {
	var units, starts, purge []string
	var fromStructure, yes bool

	cmd := &cobra.Command{
		Use:   "sync PROJECT",
		Short: "Generate and reschedule tasks from process models",
		Long: `Create missing tasks for every unit with a process model and move the planned
dates of tasks that have not started yet. A unit is anchored on its --start
override, else on the project start date when it has no tasks yet.

--purge deletes all tasks of the listed units first; units with a --start
override are never purged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projectID, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}
			req := app.SyncRequest{ProjectID: projectID, Actor: a.Actor}
			if units := trimAll(units); len(units) > 0 {
				if req.UnitIDs, err = resolveNodeIDs(ctx, a, projectID, units); err != nil {
					return err
				}
			}

			overrides := map[string]string{}
			if fromStructure {
				derived, err := a.Sync.StartOverridesFromStructure(ctx, projectID, req.UnitIDs)
				if err != nil {
					return err
				}
				for k, v := range derived {
					overrides[k] = v
				}
			}
			for _, spec := range starts {
				unitRef, date, ok := strings.Cut(spec, "=")
				if !ok {
					return fmt.Errorf("--start %q: expected UNIT=DATE: %w", spec, domain.ErrValidation)
				}
				unitID, err := resolveNodeID(ctx, a, projectID, unitRef)
				if err != nil {
					return err
				}
				d, err := parseDateArg(date, a.now())
				if err != nil {
					return fmt.Errorf("--start %q: %w", spec, err)
				}
				overrides[unitID] = d.Format(domain.DateLayout)
			}
			req.StartOverrides = overrides

			if purgeRefs := trimAll(purge); len(purgeRefs) > 0 {
				if req.PurgeUnitIDs, err = resolveNodeIDs(ctx, a, projectID, purgeRefs); err != nil {
					return err
				}
				title := fmt.Sprintf("Delete all tasks of %s before syncing?", formatter.Plural(len(req.PurgeUnitIDs), "unit", "units"))
				if err := confirmDestructive(a, yes, title); err != nil {
					return err
				}
			}

			res, err := a.Sync.Sync(ctx, req)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSyncResult(res))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&units, "unit", nil, "Restrict to these unit ids or paths")
	cmd.Flags().StringArrayVar(&starts, "start", nil, "Anchor override as UNIT=DATE, repeatable")
	cmd.Flags().BoolVar(&fromStructure, "from-structure", false, "Anchor units on the planned start stored in the structure")
	cmd.Flags().StringSliceVar(&purge, "purge", nil, "Delete the tasks of these units before syncing")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the purge confirmation")

	return cmd
}
