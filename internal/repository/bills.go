package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

const billColumns = `id, billed_user, from_biller, description, amount, status, created_at,
	due_date, invoice_number, reference_number, COALESCE(linked_bill, '')`

func scanBill(row interface{ Scan(...any) error }) (*models.Bill, error) {
	b := &models.Bill{}
	err := row.Scan(&b.ID, &b.BilledUser, &b.From, &b.Description, &b.Amount, &b.Status,
		&b.CreatedAt, &b.DueDate, &b.InvoiceNumber, &b.ReferenceNumber, &b.LinkedBill)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBill creates a new bill in the database
func (r *Repository) CreateBill(ctx context.Context, b *models.Bill) error {
	query := `
		INSERT INTO bills (billed_user, from_biller, description, amount, status, created_at,
			due_date, invoice_number, reference_number, linked_bill)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		b.BilledUser, b.From, b.Description, b.Amount, b.Status, b.CreatedAt,
		b.DueDate, b.InvoiceNumber, b.ReferenceNumber, b.LinkedBill).
		Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// FindBillByID retrieves a bill by id
func (r *Repository) FindBillByID(ctx context.Context, id int64) (*models.Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills WHERE id = $1`
	b, err := scanBill(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bill %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find bill: %w", err)
	}
	return b, nil
}

// ListOpenBillsForBiller retrieves a user's unpaid bills from a biller,
// oldest due date first. Ordering is the payment-application contract: an
// incoming BPAY payment is applied to the oldest bill first.
func (r *Repository) ListOpenBillsForBiller(ctx context.Context, userID int64, billerName string) ([]*models.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE billed_user = $1 AND from_biller = $2 AND status <> 'paid'
		ORDER BY due_date ASC`
	rows, err := r.db.QueryContext(ctx, query, userID, billerName)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// ListBillsForUser retrieves all bills issued to a user, newest first
func (r *Repository) ListBillsForUser(ctx context.Context, userID int64) ([]*models.Bill, error) {
	query := `
		SELECT ` + billColumns + `
		FROM bills
		WHERE billed_user = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	var bills []*models.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// UpdateBillPayment writes a bill's remaining amount and payment status
func (r *Repository) UpdateBillPayment(ctx context.Context, id int64, amount decimal.Decimal, status models.BillStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE bills SET amount = $1, status = $2 WHERE id = $3`, amount, status, id)
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update bill: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bill %d: %w", id, ErrNotFound)
	}
	return nil
}

// MaxBillID returns the highest bill id, or 0 when no bills exist. Invoice
// numbers are derived from it.
func (r *Repository) MaxBillID(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 0) FROM bills`).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to query max bill id: %w", err)
	}
	return max, nil
}
