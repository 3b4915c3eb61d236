package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// BpayReceipt summarizes how an incoming BPAY payment was applied.
type BpayReceipt struct {
	PaidBills    []int64         `json:"paid_bills"`
	PartialBills []int64         `json:"partial_bills"`
	Refunded     decimal.Decimal `json:"refunded"`
}

// PayBills applies a BPAY payment against a user's open bills for a biller.
// The full amount is debited up front, then applied oldest-due-date-first:
// bills it covers are marked paid, a remainder splits a bill into a partial
// payment, and whatever is left after the last open bill is refunded to the
// source account. Any failure is wrapped as ErrBpayProcessing; the up-front
// debit is not compensated beyond the refund path.
func (s *Service) PayBills(ctx context.Context, from *models.Account, billerName, billerCode, referenceNum string, amount decimal.Decimal, description string, payingUser int64) (*BpayReceipt, error) {
	receipt, err := s.payBills(ctx, from, billerName, billerCode, referenceNum, amount, description, payingUser)
	if err != nil {
		s.log.Errorf("BPAY payment of %s to biller %s for user %d failed: %v", amount, billerCode, payingUser, err)
		return nil, fmt.Errorf("%w: %w", ErrBpayProcessing, err)
	}
	return receipt, nil
}

func (s *Service) payBills(ctx context.Context, from *models.Account, billerName, billerCode, referenceNum string, amount decimal.Decimal, description string, payingUser int64) (*BpayReceipt, error) {
	if amount.IsZero() {
		return nil, ErrZeroAmount
	}
	newBalance := from.Balance.Sub(amount)
	if err := checkBalance(from, newBalance); err != nil {
		return nil, err
	}

	// Debit the full payment up front; unmatched credit is refunded below.
	if err := s.UpdateAccounts(ctx, from, newBalance); err != nil {
		return nil, err
	}

	bills, err := s.store.ListOpenBillsForBiller(ctx, payingUser, billerName)
	if err != nil {
		return nil, err
	}

	receipt := &BpayReceipt{Refunded: decimal.Zero}
	billcredit := amount
	for _, bill := range bills {
		if !billcredit.IsPositive() {
			break
		}
		if billcredit.GreaterThanOrEqual(bill.Amount) {
			if err := s.recordBillPayment(ctx, from, bill, billerName, billerCode, referenceNum, bill.Amount, description); err != nil {
				return nil, err
			}
			if err := s.store.UpdateBillPayment(ctx, bill.ID, bill.Amount, models.BillStatusPaid); err != nil {
				return nil, err
			}
			billcredit = billcredit.Sub(bill.Amount)
			receipt.PaidBills = append(receipt.PaidBills, bill.ID)
		} else {
			if err := s.recordBillPayment(ctx, from, bill, billerName, billerCode, referenceNum, billcredit, description); err != nil {
				return nil, err
			}
			remaining := bill.Amount.Sub(billcredit)
			if err := s.store.UpdateBillPayment(ctx, bill.ID, remaining, models.BillStatusPartial); err != nil {
				return nil, err
			}
			receipt.PartialBills = append(receipt.PartialBills, bill.ID)
			billcredit = decimal.Zero
		}
	}

	// Overpayment, or no open bills matched: return the unused portion.
	if billcredit.IsPositive() {
		if err := s.UpdateAccounts(ctx, from, from.Balance.Add(billcredit)); err != nil {
			return nil, err
		}
		receipt.Refunded = billcredit
	}

	s.log.Infof("BPAY payment of %s to biller %s applied for user %d (paid=%d partial=%d refunded=%s)",
		amount, billerCode, payingUser, len(receipt.PaidBills), len(receipt.PartialBills), receipt.Refunded)
	return receipt, nil
}

// recordBillPayment inserts the bpay transaction record for a single bill's
// share of the payment. The account was debited up front, so this is a
// record-only insert.
func (s *Service) recordBillPayment(ctx context.Context, from *models.Account, bill *models.Bill, billerName, billerCode, referenceNum string, paid decimal.Decimal, description string) error {
	desc := ComposeBPAYDescription(description, billerName, billerCode, referenceNum)
	if bill.InvoiceNumber != "" {
		desc = fmt.Sprintf("%s [%s]", desc, bill.InvoiceNumber)
	}
	t := &models.Transaction{
		Description:         desc,
		Amount:              paid,
		PaidOn:              s.now(),
		FromAccount:         from.ID,
		FromAccountUsername: from.OwnerUsername,
		TransactionType:     models.TransactionTypeBPAY,
	}
	return s.store.CreateTransaction(ctx, t)
}
