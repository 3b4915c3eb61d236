package repository

import (
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// InitSchema creates the tables if they do not exist yet.
func (r *Repository) InitSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			username TEXT NOT NULL UNIQUE,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS accounts (
			id SERIAL PRIMARY KEY,
			type TEXT NOT NULL,
			balance NUMERIC(18,2) NOT NULL DEFAULT 0,
			owner BIGINT NOT NULL REFERENCES users(id),
			owner_username TEXT NOT NULL,
			bsb TEXT,
			acc TEXT,
			opening_balance NUMERIC(18,2) NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id SERIAL PRIMARY KEY,
			description TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			paid_on TIMESTAMPTZ NOT NULL,
			from_account BIGINT NOT NULL,
			from_account_username TEXT NOT NULL,
			to_account BIGINT,
			to_account_username TEXT,
			transaction_type TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS billers (
			id SERIAL PRIMARY KEY,
			biller_name TEXT NOT NULL,
			biller_code TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS bills (
			id SERIAL PRIMARY KEY,
			billed_user BIGINT NOT NULL REFERENCES users(id),
			from_biller TEXT NOT NULL,
			description TEXT NOT NULL,
			amount NUMERIC(18,2) NOT NULL,
			status TEXT NOT NULL DEFAULT 'unpaid',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			due_date TIMESTAMPTZ NOT NULL,
			invoice_number TEXT NOT NULL UNIQUE,
			reference_number TEXT NOT NULL,
			linked_bill TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS schedule_payments (
			id SERIAL PRIMARY KEY,
			pay_at TIMESTAMPTZ NOT NULL,
			related_user BIGINT NOT NULL REFERENCES users(id),
			from_account BIGINT NOT NULL,
			to_account BIGINT,
			biller_name TEXT,
			biller_code TEXT,
			reference_number TEXT,
			amount NUMERIC(18,2) NOT NULL,
			description TEXT NOT NULL,
			schedule_ref TEXT NOT NULL UNIQUE,
			schedule_type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			recurring_payment BIGINT
		)`,
		`CREATE TABLE IF NOT EXISTS recurring_payments (
			id SERIAL PRIMARY KEY,
			interval TEXT NOT NULL,
			related_schedule BIGINT NOT NULL,
			recur_rule TEXT NOT NULL,
			end_date TIMESTAMPTZ,
			recur_count_dec INT
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id SERIAL PRIMARY KEY,
			sender_name TEXT NOT NULL,
			to_user BIGINT NOT NULL REFERENCES users(id),
			description TEXT NOT NULL,
			type TEXT NOT NULL,
			invoice_ref TEXT,
			linked_bill TEXT,
			schedule_ref TEXT,
			read BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
