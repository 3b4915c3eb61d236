package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// checkBalance enforces the account invariants for a prospective balance:
// non-credit accounts never go negative, credit accounts never exceed their
// opening balance (the credit limit).
func checkBalance(account *models.Account, newBalance decimal.Decimal) error {
	if account.Type == models.AccountTypeCredit {
		if newBalance.GreaterThan(account.OpeningBalance) {
			return fmt.Errorf("account %d: %w", account.ID, ErrCreditLimitExceeded)
		}
		return nil
	}
	if newBalance.IsNegative() {
		return fmt.Errorf("account %d: %w", account.ID, ErrInsufficientFunds)
	}
	return nil
}

// CreateTransaction moves amount between two accounts and records the
// transaction. Balance writes and the transaction insert are atomic: on any
// failure both balances are left at their pre-call values. On success the
// passed accounts reflect the new balances.
func (s *Service) CreateTransaction(ctx context.Context, from, to *models.Account, amount decimal.Decimal, description string, txType models.TransactionType) (*models.Transaction, error) {
	if txType != models.TransactionTypeTransfer && txType != models.TransactionTypePayAny {
		return nil, fmt.Errorf("transaction type %q not valid for a transfer", txType)
	}
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}

	fromNewBalance := from.Balance.Sub(amount)
	toNewBalance := to.Balance.Add(amount)
	if err := checkBalance(from, fromNewBalance); err != nil {
		return nil, err
	}
	if err := checkBalance(to, toNewBalance); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		Description:         description,
		Amount:              amount,
		PaidOn:              s.now(),
		FromAccount:         from.ID,
		FromAccountUsername: from.OwnerUsername,
		ToAccount:           to.ID,
		ToAccountUsername:   to.OwnerUsername,
		TransactionType:     txType,
	}
	if err := s.store.ApplyTransfer(ctx, from.ID, to.ID, fromNewBalance, toNewBalance, t); err != nil {
		return nil, err
	}

	from.Balance = fromNewBalance
	to.Balance = toNewBalance
	s.log.Infof("Transfer of %s from account %d to account %d", amount, from.ID, to.ID)
	return t, nil
}

// ComposeBPAYDescription embeds the biller details in a transaction
// description the way BPAY records are rendered in statements.
func ComposeBPAYDescription(description, billerName, billerCode, referenceNum string) string {
	return fmt.Sprintf("%s | BPAY to %s (Biller Code: %s, Ref: %s)", description, billerName, billerCode, referenceNum)
}

// CreateBPAYTransaction debits an account for a BPAY payment and records a
// bpay-tagged transaction atomically. On success the passed account reflects
// the new balance.
func (s *Service) CreateBPAYTransaction(ctx context.Context, from *models.Account, billerName, billerCode, referenceNum string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}

	fromNewBalance := from.Balance.Sub(amount)
	if err := checkBalance(from, fromNewBalance); err != nil {
		return nil, err
	}

	t := &models.Transaction{
		Description:         ComposeBPAYDescription(description, billerName, billerCode, referenceNum),
		Amount:              amount,
		PaidOn:              s.now(),
		FromAccount:         from.ID,
		FromAccountUsername: from.OwnerUsername,
		TransactionType:     models.TransactionTypeBPAY,
	}
	if err := s.store.ApplyDebit(ctx, from.ID, fromNewBalance, t); err != nil {
		return nil, err
	}

	from.Balance = fromNewBalance
	s.log.Infof("BPAY payment of %s from account %d to biller %s", amount, from.ID, billerCode)
	return t, nil
}

// UpdateAccounts writes a new balance unconditionally. No validation is
// performed; callers own the balance invariants.
func (s *Service) UpdateAccounts(ctx context.Context, account *models.Account, newBalance decimal.Decimal) error {
	if err := s.store.UpdateAccountBalance(ctx, account.ID, newBalance); err != nil {
		return err
	}
	account.Balance = newBalance
	return nil
}
