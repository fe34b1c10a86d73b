// Package audit persists the append-only protocol of mutating operations.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/alexanderramin/taktplan/internal/domain"
	"github.com/alexanderramin/taktplan/internal/repository"
	"github.com/google/uuid"
)

// Details is the free-form payload of an audit entry.
type Details map[string]any

// Entry describes one completed mutation.
type Entry struct {
	Actor      string
	Action     string
	OK         bool
	StatusCode int
	Details    Details
}

// Sink accepts audit entries. Implementations never fail the caller.
type Sink interface {
	Log(ctx context.Context, e Entry)
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Log(context.Context, Entry) {}

// Logger writes entries through an AuditRepo. It must be called after the
// business transaction has committed and is given a repository bound to the
// database rather than to that transaction.
type Logger struct {
	store  repository.AuditRepo
	logger *slog.Logger
	now    func() time.Time
}

func NewLogger(store repository.AuditRepo, logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{store: store, logger: logger, now: time.Now}
}

// Log appends one record. Unserializable details are replaced by an error
// marker; persistence failures are logged and swallowed.
func (l *Logger) Log(ctx context.Context, e Entry) {
	rec := &domain.AuditRecord{
		ID:         uuid.New().String(),
		Actor:      e.Actor,
		Action:     e.Action,
		OK:         e.OK,
		StatusCode: e.StatusCode,
		Details:    encodeDetails(e.Details),
		CreatedAt:  l.now().UTC(),
	}
	if err := l.store.Append(ctx, rec); err != nil {
		l.logger.WarnContext(ctx, "audit_append_failed",
			"action", e.Action,
			"actor", e.Actor,
			"error", err.Error(),
		)
	}
}

// List returns recent records, newest first.
func (l *Logger) List(ctx context.Context, q repository.AuditQuery) ([]*domain.AuditRecord, error) {
	recs, err := l.store.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listing audit log: %w", err)
	}
	return recs, nil
}

func encodeDetails(d Details) string {
	if d == nil {
		return "{}"
	}
	b, err := json.Marshal(d)
	if err != nil {
		fallback, _ := json.Marshal(map[string]string{
			"_error": fmt.Sprintf("details not serializable: %v", err),
		})
		return string(fallback)
	}
	return string(b)
}
