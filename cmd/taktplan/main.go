package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexanderramin/taktplan/internal/audit"
	"github.com/alexanderramin/taktplan/internal/cli"
	"github.com/alexanderramin/taktplan/internal/cli/formatter"
	"github.com/alexanderramin/taktplan/internal/config"
	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/logging"
	"github.com/alexanderramin/taktplan/internal/repository"
	"github.com/alexanderramin/taktplan/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// TAKTPLAN_CONFIG names an explicit config file; otherwise the
	// default location is read when present.
	v, err := config.New(os.Getenv("TAKTPLAN_CONFIG"))
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging, os.Stderr)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer logger.Close()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColor()
	}

	database, err := db.OpenDB(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	structureRepo := repository.NewSQLiteStructureRepo(database)
	modelRepo := repository.NewSQLiteProcessModelRepo(database)
	tradeRepo := repository.NewSQLiteTradeRepo(database)
	taskRepo := repository.NewSQLiteTaskRepo(database)
	answerRepo := repository.NewSQLiteCheckAnswerRepo(database)
	auditRepo := repository.NewSQLiteAuditRepo(database)

	// Wire unit of work, audit sink and telemetry
	uow := db.NewSQLiteUnitOfWork(database)
	auditLog := audit.NewLogger(auditRepo, logger.Logger)
	observer := service.NewLogUseCaseObserver(logger.Logger)
	clock := service.RealClock{}

	app := &cli.App{
		Projects:  service.NewProjectService(projectRepo, uow, auditLog, clock, observer),
		Structure: service.NewStructureService(structureRepo, modelRepo, uow, auditLog, clock, observer),
		Models:    service.NewModelService(modelRepo, tradeRepo, uow, auditLog, clock, observer),
		Sync:      service.NewSyncService(structureRepo, modelRepo, uow, auditLog, clock, observer),
		Shift:     service.NewShiftService(uow, auditLog, clock, observer),
		Tasks:     service.NewTaskService(taskRepo, answerRepo, uow, auditLog, clock, observer),
		Import:    service.NewImportService(uow, auditLog, clock, observer),
		Audit:     auditLog,

		Actor:        cfg.Audit.Actor,
		SkipWeekends: cfg.Schedule.SkipWeekends,
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}
