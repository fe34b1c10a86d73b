package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
)

const auditColumns = `id, actor, action, ok, status_code, details, created_at`

// auditTimeLayout is fixed-width so created_at sorts lexically.
const auditTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

// SQLiteAuditRepo appends to and reads the audit log. It has no update or
// delete methods.
type SQLiteAuditRepo struct {
	db db.DBTX
}

func NewSQLiteAuditRepo(db db.DBTX) *SQLiteAuditRepo {
	return &SQLiteAuditRepo{db: db}
}

func (r *SQLiteAuditRepo) Append(ctx context.Context, rec *domain.AuditRecord) error {
	query := `INSERT INTO audit_log (` + auditColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Actor, rec.Action, boolToInt(rec.OK), rec.StatusCode, rec.Details,
		rec.CreatedAt.UTC().Format(auditTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}
	return nil
}

func (r *SQLiteAuditRepo) List(ctx context.Context, q AuditQuery) ([]*domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log WHERE 1 = 1`
	var args []any
	if q.ActionPrefix != "" {
		query += ` AND action LIKE ? ESCAPE '\'`
		args = append(args, likeEscape(q.ActionPrefix)+"%")
	}
	if q.Actor != "" {
		query += ` AND actor = ?`
		args = append(args, q.Actor)
	}
	query += ` ORDER BY created_at DESC, rowid DESC`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing audit records: %w", err)
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var ok int
		var createdAtStr string
		if err := rows.Scan(&rec.ID, &rec.Actor, &rec.Action, &ok, &rec.StatusCode,
			&rec.Details, &createdAtStr); err != nil {
			return nil, fmt.Errorf("scanning audit row: %w", err)
		}
		rec.OK = intToBool(ok)
		rec.CreatedAt, err = time.Parse(auditTimeLayout, createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit records: %w", err)
	}
	return records, nil
}
