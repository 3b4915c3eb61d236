package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/utils"
)

// IssueBill creates an unpaid bill against a user, generating the invoice
// number from the highest existing bill id, a fresh BPAY reference, and the
// standard 30-day due date. An inbox message tells the user a bill arrived.
func (s *Service) IssueBill(ctx context.Context, billedUser int64, billerName, description string, amount decimal.Decimal, linkedBill string) (*models.Bill, error) {
	maxID, err := s.store.MaxBillID(ctx)
	if err != nil {
		return nil, err
	}
	refNumber, err := utils.ReferenceNumber()
	if err != nil {
		return nil, fmt.Errorf("failed to generate reference number: %w", err)
	}

	now := s.now()
	bill := &models.Bill{
		BilledUser:      billedUser,
		From:            billerName,
		Description:     description,
		Amount:          amount,
		Status:          models.BillStatusUnpaid,
		CreatedAt:       now,
		DueDate:         utils.CalculateDueDate(now),
		InvoiceNumber:   utils.UniqueInvoiceNumber(maxID),
		ReferenceNumber: refNumber,
		LinkedBill:      linkedBill,
	}
	if err := s.store.CreateBill(ctx, bill); err != nil {
		return nil, err
	}

	s.CreateMessage(ctx, billerName, billedUser,
		fmt.Sprintf("You have received a bill of $%s from %s, due %s.", amount, billerName, bill.DueDate.Format("02 Jan 2006")),
		models.MessageKindBill, bill.InvoiceNumber, linkedBill, "")

	s.log.Infof("Bill %s of %s issued to user %d by %s", bill.InvoiceNumber, amount, billedUser, billerName)
	return bill, nil
}

// ListBills retrieves a user's bills with the overdue status derived at
// read time.
func (s *Service) ListBills(ctx context.Context, userID int64) ([]*models.Bill, error) {
	bills, err := s.store.ListBillsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, b := range bills {
		b.Status = b.EffectiveStatus(now)
	}
	return bills, nil
}
