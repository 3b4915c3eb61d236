package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

const insertTransaction = `
	INSERT INTO transactions (description, amount, paid_on, from_account, from_account_username,
		to_account, to_account_username, transaction_type)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id`

func scanToAccount(t *models.Transaction) (any, any) {
	if t.ToAccount == 0 {
		return nil, nil
	}
	return t.ToAccount, t.ToAccountUsername
}

// CreateTransaction inserts a single transaction record
func (r *Repository) CreateTransaction(ctx context.Context, t *models.Transaction) error {
	to, toUsername := scanToAccount(t)
	err := r.db.QueryRowContext(ctx, insertTransaction,
		t.Description, t.Amount, t.PaidOn, t.FromAccount, t.FromAccountUsername,
		to, toUsername, t.TransactionType).
		Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// ApplyTransfer writes both account balances and the transaction record in a
// single database transaction, so a failure at any point leaves the ledger
// untouched.
func (r *Repository) ApplyTransfer(ctx context.Context, fromID, toID int64, fromBalance, toBalance decimal.Decimal, t *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, fromBalance, fromID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to debit account %d: %w", fromID, err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, toBalance, toID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to credit account %d: %w", toID, err)
	}
	to, toUsername := scanToAccount(t)
	if err := tx.QueryRowContext(ctx, insertTransaction,
		t.Description, t.Amount, t.PaidOn, t.FromAccount, t.FromAccountUsername,
		to, toUsername, t.TransactionType).Scan(&t.ID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	return nil
}

// ApplyDebit writes a single account balance and the transaction record in a
// single database transaction.
func (r *Repository) ApplyDebit(ctx context.Context, accountID int64, balance decimal.Decimal, t *models.Transaction) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin debit: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, balance, accountID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to debit account %d: %w", accountID, err)
	}
	to, toUsername := scanToAccount(t)
	if err := tx.QueryRowContext(ctx, insertTransaction,
		t.Description, t.Amount, t.PaidOn, t.FromAccount, t.FromAccountUsername,
		to, toUsername, t.TransactionType).Scan(&t.ID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit debit: %w", err)
	}
	return nil
}

// ListTransactionsForAccount retrieves the transactions an account took part
// in, most recent first.
func (r *Repository) ListTransactionsForAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	query := `
		SELECT id, description, amount, paid_on, from_account, from_account_username,
			COALESCE(to_account, 0), COALESCE(to_account_username, ''), transaction_type
		FROM transactions
		WHERE from_account = $1 OR to_account = $1
		ORDER BY paid_on DESC`
	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var out []*models.Transaction
	for rows.Next() {
		t := &models.Transaction{}
		if err := rows.Scan(&t.ID, &t.Description, &t.Amount, &t.PaidOn, &t.FromAccount,
			&t.FromAccountUsername, &t.ToAccount, &t.ToAccountUsername, &t.TransactionType); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
