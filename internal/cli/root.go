package cli

import (
	"context"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/repository"
	"github.com/alexanderramin/taktplan/internal/service"
	"github.com/spf13/cobra"
)

// AuditLog lists recorded mutations.
type AuditLog interface {
	List(ctx context.Context, q repository.AuditQuery) ([]*domain.AuditRecord, error)
}

// App holds the services and settings used by CLI commands.
type App struct {
	Projects  service.ProjectService
	Structure service.StructureService
	Models    service.ModelService
	Sync      service.SyncService
	Shift     service.ShiftService
	Tasks     service.TaskService
	Import    service.ImportService
	Audit     AuditLog

	// Actor is recorded on every audited mutation unless --actor is given.
	Actor string
	// SkipWeekends is the default for shift --skip-weekends.
	SkipWeekends bool

	// Now returns the current time; nil means time.Now.
	Now func() time.Time
	// IsInteractive reports whether prompts can be shown.
	IsInteractive func() bool
	// Confirm asks a yes/no question; nil uses a huh confirmation form.
	Confirm func(title string) (bool, error)
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "taktplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "taktplan",
		Short:         "Construction task scheduling from process models",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.Actor, "actor", app.Actor, "Name recorded in the audit log")

	root.AddCommand(
		newProjectCmd(app),
		newStructureCmd(app),
		newModelCmd(app),
		newTradeCmd(app),
		newSyncCmd(app),
		newShiftCmd(app),
		newTaskCmd(app),
		newAuditCmd(app),
	)

	return root
}
