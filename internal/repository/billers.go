package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// CreateBiller creates a new biller in the database
func (r *Repository) CreateBiller(ctx context.Context, b *models.Biller) error {
	query := `
		INSERT INTO billers (biller_name, biller_code)
		VALUES ($1, $2)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, b.Name, b.Code).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to create biller: %w", err)
	}
	return nil
}

// UpsertBiller inserts a biller or updates its name when the code already
// exists. Used by the directory import.
func (r *Repository) UpsertBiller(ctx context.Context, b *models.Biller) error {
	query := `
		INSERT INTO billers (biller_name, biller_code)
		VALUES ($1, $2)
		ON CONFLICT (biller_code) DO UPDATE SET biller_name = EXCLUDED.biller_name
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, b.Name, b.Code).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert biller: %w", err)
	}
	return nil
}

// FindBillerByCode retrieves a biller by its BPAY code
func (r *Repository) FindBillerByCode(ctx context.Context, code string) (*models.Biller, error) {
	b := &models.Biller{}
	query := `SELECT id, biller_name, biller_code FROM billers WHERE biller_code = $1`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&b.ID, &b.Name, &b.Code)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("biller %s: %w", code, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find biller: %w", err)
	}
	return b, nil
}

// ListBillers retrieves all billers
func (r *Repository) ListBillers(ctx context.Context) ([]*models.Biller, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, biller_name, biller_code FROM billers ORDER BY biller_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list billers: %w", err)
	}
	defer rows.Close()

	var billers []*models.Biller
	for rows.Next() {
		b := &models.Biller{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Code); err != nil {
			return nil, fmt.Errorf("failed to scan biller: %w", err)
		}
		billers = append(billers, b)
	}
	return billers, rows.Err()
}

// DeleteBiller removes a biller by id
func (r *Repository) DeleteBiller(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM billers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete biller: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete biller: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("biller %d: %w", id, ErrNotFound)
	}
	return nil
}
