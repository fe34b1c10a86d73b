package cli

import (
	"fmt"

	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/alexanderramin/taktplan/internal/repository"
	"github.com/spf13/cobra"
)

func newAuditCmd(a *App) *cobra.Command {
	var q repository.AuditQuery

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the audit log of mutations",
		Example: `  taktplan audit --action task.
  taktplan audit --by anna --limit 20`,
		RunE: func(cmd *cobra.Command, args []string) error {
			recs, err := a.Audit.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAuditList(recs, a.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&q.ActionPrefix, "action", "", "Only actions starting with this prefix")
	cmd.Flags().StringVar(&q.Actor, "by", "", "Only entries by this actor")
	cmd.Flags().IntVar(&q.Limit, "limit", 50, "Maximum number of entries")
	return cmd
}
