package models

import "github.com/shopspring/decimal"

// AccountType classifies an account product.
type AccountType string

const (
	AccountTypePersonal AccountType = "personal"
	AccountTypeSavings  AccountType = "savings"
	AccountTypeCredit   AccountType = "credit"
	AccountTypeDebit    AccountType = "debit"
	AccountTypeOther    AccountType = "other"
)

// Account represents a bank account. Balances are mutated only through the
// ledger service. For credit accounts Balance must never exceed
// OpeningBalance (the credit limit); for all other types it must never go
// negative.
type Account struct {
	ID             int64           `json:"id"`
	Type           AccountType     `json:"type"`
	Balance        decimal.Decimal `json:"balance"`
	OwnerID        int64           `json:"owner"`
	OwnerUsername  string          `json:"owner_username"`
	BSB            string          `json:"bsb,omitempty"`
	AccountNumber  string          `json:"acc,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}
