package cart

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PostgresStore persists cart snapshots as JSONB rows, one row per cart.
// Saves are full-row upserts, matching the whole-value snapshot contract
// of the store port.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("db is nil")
	}
	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) LoadCart(ctx context.Context, cartID string) ([]Line, error) {
	query := `
		SELECT items
		FROM cart_snapshots
		WHERE cart_id = $1
	`
	var raw []byte
	err := s.db.QueryRowContext(ctx, query, cartID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return []Line{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cart snapshot: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal(raw, &lines); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	return lines, nil
}

func (s *PostgresStore) SaveCart(ctx context.Context, cartID string, lines []Line) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return fmt.Errorf("failed to encode cart snapshot: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO cart_snapshots (cart_id, items, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (cart_id)
			DO UPDATE SET items = EXCLUDED.items, updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, query, cartID, raw); err != nil {
			return fmt.Errorf("failed to upsert cart snapshot: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) LoadDiscount(ctx context.Context, cartID string) (float64, error) {
	query := `
		SELECT amount
		FROM cart_discounts
		WHERE cart_id = $1
	`
	var amount float64
	err := s.db.QueryRowContext(ctx, query, cartID).Scan(&amount)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query discount: %w", err)
	}
	return amount, nil
}

func (s *PostgresStore) SaveDiscount(ctx context.Context, cartID string, amount float64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO cart_discounts (cart_id, amount, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (cart_id)
			DO UPDATE SET amount = EXCLUDED.amount, updated_at = NOW()
		`
		if _, err := tx.ExecContext(ctx, query, cartID, amount); err != nil {
			return fmt.Errorf("failed to upsert discount: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) ClearDiscount(ctx context.Context, cartID string) error {
	query := `
		DELETE FROM cart_discounts
		WHERE cart_id = $1
	`
	if _, err := s.db.ExecContext(ctx, query, cartID); err != nil {
		return fmt.Errorf("failed to clear discount: %w", err)
	}
	return nil
}

func (s *PostgresStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		er := tx.Rollback()
		if er != nil && !errors.Is(er, sql.ErrTxDone) {
			return fmt.Errorf("failed to rollback withTx: %w", err)
		}
		return fmt.Errorf("failed to execute withTx: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit withTx: %w", err)
	}
	return nil
}
