package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillStatus tracks a bill through its payment lifecycle. Paid is terminal.
// Overdue is derived from the due date when a bill is read, never stored.
type BillStatus string

const (
	BillStatusUnpaid  BillStatus = "unpaid"
	BillStatusPartial BillStatus = "partial"
	BillStatusPending BillStatus = "pending"
	BillStatusPaid    BillStatus = "paid"
	BillStatusOverdue BillStatus = "overdue"
)

// Bill represents an amount owed by a user to a biller. Amount is mutable
// and decreases as partial payments are applied against it.
type Bill struct {
	ID              int64           `json:"id"`
	BilledUser      int64           `json:"billed_user"`
	From            string          `json:"from"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Status          BillStatus      `json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	DueDate         time.Time       `json:"due_date"`
	InvoiceNumber   string          `json:"invoice_number"`
	ReferenceNumber string          `json:"reference_number"`
	LinkedBill      string          `json:"linked_bill,omitempty"`
}

// EffectiveStatus derives the user-visible status at read time. An open bill
// past its due date reads as overdue without a stored transition.
func (b *Bill) EffectiveStatus(now time.Time) BillStatus {
	if (b.Status == BillStatusUnpaid || b.Status == BillStatusPartial) && now.After(b.DueDate) {
		return BillStatusOverdue
	}
	return b.Status
}

// Open reports whether the bill can still receive payment.
func (b *Bill) Open() bool {
	return b.Status != BillStatusPaid
}
