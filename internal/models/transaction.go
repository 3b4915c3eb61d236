package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies how a transaction was initiated.
type TransactionType string

const (
	TransactionTypeTransfer TransactionType = "transfer funds"
	TransactionTypePayAny   TransactionType = "pay anyone"
	TransactionTypeBPAY     TransactionType = "bpay"
)

// Transaction is an immutable ledger record. It is created once and never
// updated or deleted.
type Transaction struct {
	ID                  int64           `json:"id"`
	Description         string          `json:"description"`
	Amount              decimal.Decimal `json:"amount"`
	PaidOn              time.Time       `json:"paid_on"`
	FromAccount         int64           `json:"from_account"`
	FromAccountUsername string          `json:"from_account_username"`
	ToAccount           int64           `json:"to_account,omitempty"`
	ToAccountUsername   string          `json:"to_account_username,omitempty"`
	TransactionType     TransactionType `json:"transaction_type"`
}
