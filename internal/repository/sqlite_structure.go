package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
)

const structureColumns = `id, project_id, level, parent_id, name, planned_start, process_model_id, created_at, updated_at`

// SQLiteStructureRepo stores all four structural levels in one
// self-referencing table.
type SQLiteStructureRepo struct {
	db db.DBTX
}

func NewSQLiteStructureRepo(db db.DBTX) *SQLiteStructureRepo {
	return &SQLiteStructureRepo{db: db}
}

func (r *SQLiteStructureRepo) Create(ctx context.Context, n *domain.StructuralUnit) error {
	query := `INSERT INTO structural_units (` + structureColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.ProjectID,
		string(n.Level),
		nullableStr(n.ParentID),
		n.Name,
		nullableTimeToString(n.PlannedStart, dateLayout),
		nullableStr(n.ProcessModelID),
		n.CreatedAt.UTC().Format(time.RFC3339),
		n.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting %s: %w", n.Level, err)
	}
	return nil
}

func (r *SQLiteStructureRepo) GetByID(ctx context.Context, id string) (*domain.StructuralUnit, error) {
	query := `SELECT ` + structureColumns + ` FROM structural_units WHERE id = ?`
	n, err := scanStructuralUnit(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("structural unit %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return n, nil
}

func (r *SQLiteStructureRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.StructuralUnit, error) {
	query := `SELECT ` + structureColumns + ` FROM structural_units
		WHERE project_id = ?
		ORDER BY CASE level WHEN 'building' THEN 0 WHEN 'staircase' THEN 1 WHEN 'floor' THEN 2 ELSE 3 END, name`
	return r.query(ctx, query, projectID)
}

func (r *SQLiteStructureRepo) ListChildren(ctx context.Context, parentID string) ([]*domain.StructuralUnit, error) {
	query := `SELECT ` + structureColumns + ` FROM structural_units WHERE parent_id = ? ORDER BY name`
	return r.query(ctx, query, parentID)
}

func (r *SQLiteStructureRepo) ListUnits(ctx context.Context, projectID string, ids []string) ([]*domain.StructuralUnit, error) {
	query := `SELECT ` + structureColumns + ` FROM structural_units WHERE project_id = ? AND level = 'unit'`
	args := []any{projectID}
	if len(ids) > 0 {
		clause, inArgs := inClause("id", ids)
		query += ` AND ` + clause
		args = append(args, inArgs...)
	}
	query += ` ORDER BY name, id`
	return r.query(ctx, query, args...)
}

func (r *SQLiteStructureRepo) Update(ctx context.Context, n *domain.StructuralUnit) error {
	query := `UPDATE structural_units SET name = ?, planned_start = ?, process_model_id = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		n.Name,
		nullableTimeToString(n.PlannedStart, dateLayout),
		nullableStr(n.ProcessModelID),
		n.UpdatedAt.UTC().Format(time.RFC3339),
		n.ID,
	)
	if err != nil {
		return fmt.Errorf("updating %s: %w", n.Level, err)
	}
	return requireAffected(res, "structural unit", n.ID)
}

func (r *SQLiteStructureRepo) SetProcessModelForDescendants(ctx context.Context, rootID string, modelID *string, now time.Time) (int, error) {
	query := `WITH RECURSIVE descendants(id) AS (
			SELECT id FROM structural_units WHERE parent_id = ?
			UNION ALL
			SELECT s.id FROM structural_units s JOIN descendants d ON s.parent_id = d.id
		)
		UPDATE structural_units SET process_model_id = ?, updated_at = ?
		WHERE id IN (SELECT id FROM descendants)`
	res, err := r.db.ExecContext(ctx, query, rootID, nullableStr(modelID), now.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, fmt.Errorf("propagating process model: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteStructureRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM structural_units WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting structural unit: %w", err)
	}
	return requireAffected(res, "structural unit", id)
}

func (r *SQLiteStructureRepo) query(ctx context.Context, query string, args ...any) ([]*domain.StructuralUnit, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing structural units: %w", err)
	}
	defer rows.Close()

	var nodes []*domain.StructuralUnit
	for rows.Next() {
		n, err := scanStructuralUnit(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating structural units: %w", err)
	}
	return nodes, nil
}

func scanStructuralUnit(s scanner) (*domain.StructuralUnit, error) {
	var n domain.StructuralUnit
	var levelStr, createdAtStr, updatedAtStr string
	var parentID, plannedStartStr, modelID sql.NullString

	err := s.Scan(&n.ID, &n.ProjectID, &levelStr, &parentID, &n.Name,
		&plannedStartStr, &modelID, &createdAtStr, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning structural unit: %w", err)
	}

	n.Level = domain.Level(levelStr)
	n.ParentID = strFromNull(parentID)
	n.PlannedStart = parseNullableTime(plannedStartStr, dateLayout)
	n.ProcessModelID = strFromNull(modelID)
	n.CreatedAt, n.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
