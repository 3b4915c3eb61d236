package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// CreateAccount creates a new account in the database
func (r *Repository) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (type, balance, owner, owner_username, bsb, acc, opening_balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query,
		account.Type, account.Balance, account.OwnerID, account.OwnerUsername,
		account.BSB, account.AccountNumber, account.OpeningBalance).
		Scan(&account.ID)
	if err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// FindAccountByID retrieves an account by id
func (r *Repository) FindAccountByID(ctx context.Context, id int64) (*models.Account, error) {
	account := &models.Account{}
	query := `
		SELECT id, type, balance, owner, owner_username, COALESCE(bsb, ''), COALESCE(acc, ''), opening_balance
		FROM accounts
		WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&account.ID, &account.Type, &account.Balance, &account.OwnerID,
			&account.OwnerUsername, &account.BSB, &account.AccountNumber, &account.OpeningBalance)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find account: %w", err)
	}
	return account, nil
}

// ListAccountsByOwner retrieves all accounts belonging to a user
func (r *Repository) ListAccountsByOwner(ctx context.Context, ownerID int64) ([]*models.Account, error) {
	query := `
		SELECT id, type, balance, owner, owner_username, COALESCE(bsb, ''), COALESCE(acc, ''), opening_balance
		FROM accounts
		WHERE owner = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*models.Account
	for rows.Next() {
		account := &models.Account{}
		if err := rows.Scan(&account.ID, &account.Type, &account.Balance, &account.OwnerID,
			&account.OwnerUsername, &account.BSB, &account.AccountNumber, &account.OpeningBalance); err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// UpdateAccountBalance writes a new balance for an account. No validation is
// performed here; callers own the balance invariants.
func (r *Repository) UpdateAccountBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET balance = $1 WHERE id = $2`, balance, id)
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("account %d: %w", id, ErrNotFound)
	}
	return nil
}
