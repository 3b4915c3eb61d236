package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/utils"
)

// OpenAccount provisions a new account for a user with generated BSB and
// account numbers. The opening balance is also the starting balance; for
// credit accounts it is the credit limit.
func (s *Service) OpenAccount(ctx context.Context, ownerID int64, accType models.AccountType, openingBalance decimal.Decimal) (*models.Account, error) {
	owner, err := s.store.FindUserByID(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	bsb, err := utils.GenerateBSB()
	if err != nil {
		return nil, fmt.Errorf("failed to generate BSB: %w", err)
	}
	accNumber, err := utils.GenerateAccountNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate account number: %w", err)
	}

	account := &models.Account{
		Type:           accType,
		Balance:        openingBalance,
		OwnerID:        owner.ID,
		OwnerUsername:  owner.Username,
		BSB:            bsb,
		AccountNumber:  accNumber,
		OpeningBalance: openingBalance,
	}
	if err := s.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	s.log.Infof("Account %d (%s) opened for user %d", account.ID, accType, ownerID)
	return account, nil
}

// FindAccount retrieves an account by id.
func (s *Service) FindAccount(ctx context.Context, id int64) (*models.Account, error) {
	return s.store.FindAccountByID(ctx, id)
}

// ListAccounts retrieves a user's accounts.
func (s *Service) ListAccounts(ctx context.Context, ownerID int64) ([]*models.Account, error) {
	return s.store.ListAccountsByOwner(ctx, ownerID)
}

// ListTransactions retrieves the transactions an account took part in.
func (s *Service) ListTransactions(ctx context.Context, accountID int64) ([]*models.Transaction, error) {
	return s.store.ListTransactionsForAccount(ctx, accountID)
}
