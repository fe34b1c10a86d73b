package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, project_id, unit_id, step_id, start_planned, end_planned,
	start_actual, end_actual, status, assignee_id, description, created_at, updated_at`

// taskColumnsAliased is the same column list prefixed with "t." for join queries.
const taskColumnsAliased = `t.id, t.project_id, t.unit_id, t.step_id, t.start_planned, t.end_planned,
	t.start_actual, t.end_actual, t.status, t.assignee_id, t.description, t.created_at, t.updated_at`

// taskDetailFrom joins a task with its step, model, trade and the three
// structural ancestors of its unit.
const taskDetailFrom = `FROM tasks t
	JOIN process_steps ps ON ps.id = t.step_id
	JOIN process_models pm ON pm.id = ps.model_id
	LEFT JOIN trades tr ON tr.id = ps.trade_id
	JOIN structural_units u ON u.id = t.unit_id
	LEFT JOIN structural_units f ON f.id = u.parent_id
	LEFT JOIN structural_units s ON s.id = f.parent_id
	LEFT JOIN structural_units b ON b.id = s.parent_id`

const taskDetailColumns = taskColumnsAliased + `,
	ps.activity, COALESCE(tr.name, ''), pm.name, u.name,
	COALESCE(f.name, ''), COALESCE(s.name, ''), COALESCE(b.name, '')`

type SQLiteTaskRepo struct {
	db db.DBTX
}

func NewSQLiteTaskRepo(db db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: db}
}

func (r *SQLiteTaskRepo) Create(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (` + taskColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.ProjectID, t.UnitID, t.StepID,
		nullableTimeToString(t.StartPlanned, dateLayout),
		nullableTimeToString(t.EndPlanned, dateLayout),
		nullableTimeToString(t.StartActual, dateLayout),
		nullableTimeToString(t.EndActual, dateLayout),
		string(t.Status),
		nullableStr(t.AssigneeID),
		t.Description,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

func (r *SQLiteTaskRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return t, nil
}

func (r *SQLiteTaskRepo) GetDetail(ctx context.Context, id string) (*domain.TaskDetail, error) {
	query := `SELECT ` + taskDetailColumns + ` ` + taskDetailFrom + ` WHERE t.id = ?`
	d, err := scanTaskDetail(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return d, nil
}

func (r *SQLiteTaskRepo) Update(ctx context.Context, t *domain.Task) error {
	query := `UPDATE tasks SET start_planned = ?, end_planned = ?, start_actual = ?, end_actual = ?,
		status = ?, assignee_id = ?, description = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		nullableTimeToString(t.StartPlanned, dateLayout),
		nullableTimeToString(t.EndPlanned, dateLayout),
		nullableTimeToString(t.StartActual, dateLayout),
		nullableTimeToString(t.EndActual, dateLayout),
		string(t.Status),
		nullableStr(t.AssigneeID),
		t.Description,
		t.UpdatedAt.UTC().Format(time.RFC3339),
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	return requireAffected(res, "task", t.ID)
}

func (r *SQLiteTaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	return requireAffected(res, "task", id)
}

func (r *SQLiteTaskRepo) ListByUnit(ctx context.Context, unitID string) ([]*domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE unit_id = ? ORDER BY start_planned, id`, unitID)
	if err != nil {
		return nil, fmt.Errorf("listing unit tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) DeleteByUnits(ctx context.Context, unitIDs []string) (int, error) {
	if len(unitIDs) == 0 {
		return 0, nil
	}
	clause, args := inClause("unit_id", unitIDs)
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE `+clause, args...)
	if err != nil {
		return 0, fmt.Errorf("purging unit tasks: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading affected rows: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteTaskRepo) ListDetailed(ctx context.Context, projectID string, filter domain.TaskFilter, today time.Time) ([]*domain.TaskDetail, error) {
	where, args := taskFilterSQL(filter, today)
	query := `SELECT ` + taskDetailColumns + ` ` + taskDetailFrom + `
		WHERE t.project_id = ?`
	args = append([]any{projectID}, args...)
	if where != "" {
		query += ` AND ` + where
	}
	query += ` ORDER BY b.name, s.name, f.name, u.name, t.start_planned, COALESCE(ps.order_index, ps.seq), ps.seq`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	defer rows.Close()

	var out []*domain.TaskDetail
	for rows.Next() {
		d, err := scanTaskDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return out, nil
}

// taskFilterSQL translates a TaskFilter into a conjunction of predicates
// over the taskDetailFrom aliases. Each list category becomes one IN clause.
func taskFilterSQL(f domain.TaskFilter, today time.Time) (string, []any) {
	var conds []string
	var args []any

	addIn := func(col string, values []string) {
		if len(values) == 0 {
			return
		}
		clause, inArgs := inClause(col, values)
		conds = append(conds, clause)
		args = append(args, inArgs...)
	}

	addIn("t.id", f.TaskIDs)
	addIn("t.unit_id", f.UnitIDs)
	addIn("tr.name", f.Trades)
	addIn("u.name", f.UnitNames)
	addIn("f.name", f.FloorNames)
	addIn("s.name", f.StaircaseNames)
	addIn("b.name", f.BuildingNames)
	addIn("pm.name", f.ProcessModels)
	addIn("ps.activity", f.Activities)

	if len(f.Statuses) > 0 {
		var ors []string
		for _, st := range f.Statuses {
			switch st {
			case domain.TaskDone:
				ors = append(ors, `t.end_actual IS NOT NULL`)
			case domain.TaskInProgress:
				ors = append(ors, `(t.start_actual IS NOT NULL AND t.end_actual IS NULL)`)
			case domain.TaskOpen:
				ors = append(ors, `(t.start_actual IS NULL AND t.end_actual IS NULL)`)
			}
		}
		if len(ors) > 0 {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}
	if f.From != nil {
		conds = append(conds, `t.end_planned >= ?`)
		args = append(args, f.From.Format(dateLayout))
	}
	if f.To != nil {
		conds = append(conds, `t.start_planned <= ?`)
		args = append(args, f.To.Format(dateLayout))
	}
	if f.Delayed {
		conds = append(conds, `((t.end_actual IS NULL AND t.end_planned < ?) OR t.end_actual > t.end_planned)`)
		args = append(args, today.Format(dateLayout))
	}
	if f.ActivityMatch != "" {
		conds = append(conds, `ps.activity LIKE ? ESCAPE '\'`)
		args = append(args, "%"+likeEscape(f.ActivityMatch)+"%")
	}

	return strings.Join(conds, " AND "), args
}

func scanTask(s scanner) (*domain.Task, error) {
	var t domain.Task
	dest, finish := taskScanTargets(&t)
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task: %w", err)
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanTaskDetail(s scanner) (*domain.TaskDetail, error) {
	var d domain.TaskDetail
	dest, finish := taskScanTargets(&d.Task)
	dest = append(dest, &d.Activity, &d.TradeName, &d.ProcessModelName, &d.UnitName,
		&d.FloorName, &d.StaircaseName, &d.BuildingName)
	if err := s.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning task detail: %w", err)
	}
	if err := finish(); err != nil {
		return nil, err
	}
	return &d, nil
}

// taskScanTargets returns the scan destinations for taskColumns and a
// function that converts the raw values into t once Scan has run.
func taskScanTargets(t *domain.Task) ([]any, func() error) {
	var startPlanned, endPlanned, startActual, endActual, assignee sql.NullString
	var statusStr, createdAtStr, updatedAtStr string

	dest := []any{
		&t.ID, &t.ProjectID, &t.UnitID, &t.StepID,
		&startPlanned, &endPlanned, &startActual, &endActual,
		&statusStr, &assignee, &t.Description, &createdAtStr, &updatedAtStr,
	}
	finish := func() error {
		t.StartPlanned = parseNullableTime(startPlanned, dateLayout)
		t.EndPlanned = parseNullableTime(endPlanned, dateLayout)
		t.StartActual = parseNullableTime(startActual, dateLayout)
		t.EndActual = parseNullableTime(endActual, dateLayout)
		t.Status = domain.TaskStatus(statusStr)
		t.AssigneeID = strFromNull(assignee)
		var err error
		t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
		return err
	}
	return dest, finish
}
