package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/taktplan/internal/audit"
	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/hierarchy"
	"github.com/alexanderramin/taktplan/internal/repository"
)

// txRepos bundles the repositories bound to one transaction.
type txRepos struct {
	projects  *repository.SQLiteProjectRepo
	structure *repository.SQLiteStructureRepo
	trades    *repository.SQLiteTradeRepo
	models    *repository.SQLiteProcessModelRepo
	tasks     *repository.SQLiteTaskRepo
	answers   *repository.SQLiteCheckAnswerRepo
}

func newTxRepos(tx db.DBTX) txRepos {
	return txRepos{
		projects:  repository.NewSQLiteProjectRepo(tx),
		structure: repository.NewSQLiteStructureRepo(tx),
		trades:    repository.NewSQLiteTradeRepo(tx),
		models:    repository.NewSQLiteProcessModelRepo(tx),
		tasks:     repository.NewSQLiteTaskRepo(tx),
		answers:   repository.NewSQLiteCheckAnswerRepo(tx),
	}
}

func (r txRepos) resolver() *hierarchy.Resolver {
	return hierarchy.NewResolver(r.structure, r.models)
}

// statusCodeFor maps an outcome to the HTTP-style code stored with audit records.
func statusCodeFor(err error) int {
	switch {
	case err == nil:
		return 200
	case errors.Is(err, domain.ErrNotFound):
		return 404
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidRange):
		return 400
	default:
		return 500
	}
}

// logFailure records a failed mutation. Successful mutations log their own
// richer entries after commit.
func logFailure(ctx context.Context, sink audit.Sink, actor, action string, err error, details audit.Details) {
	if err == nil {
		return
	}
	if details == nil {
		details = audit.Details{}
	}
	details["error"] = err.Error()
	sink.Log(ctx, audit.Entry{
		Actor:      actor,
		Action:     action,
		OK:         false,
		StatusCode: statusCodeFor(err),
		Details:    details,
	})
}

func sameDate(a *time.Time, b time.Time) bool {
	return a != nil && domain.DateOf(*a).Equal(domain.DateOf(b))
}

func datePtr(t time.Time) *time.Time {
	d := domain.DateOf(t)
	return &d
}

func sinkOrNop(s audit.Sink) audit.Sink {
	if s == nil {
		return audit.Nop{}
	}
	return s
}

func clockOrReal(c Clock) Clock {
	if c == nil {
		return RealClock{}
	}
	return c
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
