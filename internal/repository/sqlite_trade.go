package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/taktplan/internal/db"
	"github.com/alexanderramin/taktplan/internal/domain"
)

type SQLiteTradeRepo struct {
	db db.DBTX
}

func NewSQLiteTradeRepo(db db.DBTX) *SQLiteTradeRepo {
	return &SQLiteTradeRepo{db: db}
}

func (r *SQLiteTradeRepo) Create(ctx context.Context, t *domain.Trade) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO trades (id, name, color) VALUES (?, ?, ?)`,
		t.ID, t.Name, t.Color)
	if err != nil {
		return fmt.Errorf("inserting trade: %w", err)
	}
	return nil
}

func (r *SQLiteTradeRepo) GetByID(ctx context.Context, id string) (*domain.Trade, error) {
	return r.get(ctx, `SELECT id, name, color FROM trades WHERE id = ?`, id)
}

func (r *SQLiteTradeRepo) GetByName(ctx context.Context, name string) (*domain.Trade, error) {
	return r.get(ctx, `SELECT id, name, color FROM trades WHERE name = ?`, name)
}

func (r *SQLiteTradeRepo) List(ctx context.Context) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, color FROM trades ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing trades: %w", err)
	}
	defer rows.Close()

	var trades []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scanning trade row: %w", err)
		}
		trades = append(trades, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trades: %w", err)
	}
	return trades, nil
}

func (r *SQLiteTradeRepo) get(ctx context.Context, query, arg string) (*domain.Trade, error) {
	var t domain.Trade
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&t.ID, &t.Name, &t.Color)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("trade %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning trade: %w", err)
	}
	return &t, nil
}
