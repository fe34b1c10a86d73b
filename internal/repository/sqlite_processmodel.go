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

const (
	processModelColumns = `id, name, created_at, updated_at`
	processStepColumns  = `id, model_id, activity, trade_id, duration_days, order_index, seq, parallel`
)

type SQLiteProcessModelRepo struct {
	db db.DBTX
}

func NewSQLiteProcessModelRepo(db db.DBTX) *SQLiteProcessModelRepo {
	return &SQLiteProcessModelRepo{db: db}
}

func (r *SQLiteProcessModelRepo) Create(ctx context.Context, m *domain.ProcessModel) error {
	query := `INSERT INTO process_models (` + processModelColumns + `) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Name,
		m.CreatedAt.UTC().Format(time.RFC3339),
		m.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting process model: %w", err)
	}
	return nil
}

func (r *SQLiteProcessModelRepo) GetByID(ctx context.Context, id string) (*domain.ProcessModel, error) {
	query := `SELECT ` + processModelColumns + ` FROM process_models WHERE id = ?`
	return r.get(ctx, query, id)
}

func (r *SQLiteProcessModelRepo) GetByName(ctx context.Context, name string) (*domain.ProcessModel, error) {
	query := `SELECT ` + processModelColumns + ` FROM process_models WHERE name = ?`
	return r.get(ctx, query, name)
}

func (r *SQLiteProcessModelRepo) GetWithSteps(ctx context.Context, id string) (*domain.ProcessModel, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m.Steps, err = r.ListSteps(ctx, id)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *SQLiteProcessModelRepo) List(ctx context.Context) ([]*domain.ProcessModel, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+processModelColumns+` FROM process_models ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing process models: %w", err)
	}
	defer rows.Close()

	var models []*domain.ProcessModel
	for rows.Next() {
		m, err := scanProcessModel(rows)
		if err != nil {
			return nil, err
		}
		models = append(models, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating process models: %w", err)
	}
	return models, nil
}

func (r *SQLiteProcessModelRepo) Update(ctx context.Context, m *domain.ProcessModel) error {
	res, err := r.db.ExecContext(ctx, `UPDATE process_models SET name = ?, updated_at = ? WHERE id = ?`,
		m.Name, m.UpdatedAt.UTC().Format(time.RFC3339), m.ID)
	if err != nil {
		return fmt.Errorf("updating process model: %w", err)
	}
	return requireAffected(res, "process model", m.ID)
}

func (r *SQLiteProcessModelRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM process_models WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting process model: %w", err)
	}
	return requireAffected(res, "process model", id)
}

func (r *SQLiteProcessModelRepo) CreateStep(ctx context.Context, s *domain.ProcessStep) error {
	query := `INSERT INTO process_steps (` + processStepColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.ModelID, s.Activity, nullableStr(s.TradeID), s.DurationDays,
		nullableIntToValue(s.Order), s.Seq, boolToInt(s.Parallel),
	)
	if err != nil {
		return fmt.Errorf("inserting process step: %w", err)
	}
	return nil
}

// UpdateStep rewrites the editable attributes; Seq is insertion identity
// and never changes.
func (r *SQLiteProcessModelRepo) UpdateStep(ctx context.Context, s *domain.ProcessStep) error {
	query := `UPDATE process_steps SET activity = ?, trade_id = ?, duration_days = ?, order_index = ?, parallel = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.Activity, nullableStr(s.TradeID), s.DurationDays,
		nullableIntToValue(s.Order), boolToInt(s.Parallel), s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating process step: %w", err)
	}
	return requireAffected(res, "process step", s.ID)
}

func (r *SQLiteProcessModelRepo) DeleteStep(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM process_steps WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting process step: %w", err)
	}
	return requireAffected(res, "process step", id)
}

func (r *SQLiteProcessModelRepo) ListSteps(ctx context.Context, modelID string) ([]domain.ProcessStep, error) {
	query := `SELECT ` + processStepColumns + ` FROM process_steps
		WHERE model_id = ? ORDER BY COALESCE(order_index, seq), seq`
	rows, err := r.db.QueryContext(ctx, query, modelID)
	if err != nil {
		return nil, fmt.Errorf("listing process steps: %w", err)
	}
	defer rows.Close()

	var steps []domain.ProcessStep
	for rows.Next() {
		var s domain.ProcessStep
		var tradeID sql.NullString
		var order sql.NullInt64
		var parallel int
		if err := rows.Scan(&s.ID, &s.ModelID, &s.Activity, &tradeID, &s.DurationDays,
			&order, &s.Seq, &parallel); err != nil {
			return nil, fmt.Errorf("scanning process step row: %w", err)
		}
		s.TradeID = strFromNull(tradeID)
		s.Order = intFromNull(order)
		s.Parallel = intToBool(parallel)
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating process steps: %w", err)
	}
	return steps, nil
}

// NextStepSeq returns the next insertion sequence for a model's steps.
func (r *SQLiteProcessModelRepo) NextStepSeq(ctx context.Context, modelID string) (int, error) {
	var seq int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM process_steps WHERE model_id = ?`, modelID).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("computing next step seq: %w", err)
	}
	return seq, nil
}

func (r *SQLiteProcessModelRepo) get(ctx context.Context, query, arg string) (*domain.ProcessModel, error) {
	m, err := scanProcessModel(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("process model %s: %w", arg, ErrNotFound)
		}
		return nil, err
	}
	return m, nil
}

func scanProcessModel(s scanner) (*domain.ProcessModel, error) {
	var m domain.ProcessModel
	var createdAtStr, updatedAtStr string
	if err := s.Scan(&m.ID, &m.Name, &createdAtStr, &updatedAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning process model: %w", err)
	}
	var err error
	m.CreatedAt, m.UpdatedAt, err = parseTimestamps(createdAtStr, updatedAtStr)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
