package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// Store is the backing-store contract the service layer depends on. The
// Postgres repository implements it; tests substitute an in-memory fake.
type Store interface {
	// Accounts
	CreateAccount(ctx context.Context, account *models.Account) error
	FindAccountByID(ctx context.Context, id int64) (*models.Account, error)
	ListAccountsByOwner(ctx context.Context, ownerID int64) ([]*models.Account, error)
	UpdateAccountBalance(ctx context.Context, id int64, balance decimal.Decimal) error

	// Transactions
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	ApplyTransfer(ctx context.Context, fromID, toID int64, fromBalance, toBalance decimal.Decimal, t *models.Transaction) error
	ApplyDebit(ctx context.Context, accountID int64, balance decimal.Decimal, t *models.Transaction) error
	ListTransactionsForAccount(ctx context.Context, accountID int64) ([]*models.Transaction, error)

	// Bills
	CreateBill(ctx context.Context, b *models.Bill) error
	FindBillByID(ctx context.Context, id int64) (*models.Bill, error)
	ListOpenBillsForBiller(ctx context.Context, userID int64, billerName string) ([]*models.Bill, error)
	ListBillsForUser(ctx context.Context, userID int64) ([]*models.Bill, error)
	UpdateBillPayment(ctx context.Context, id int64, amount decimal.Decimal, status models.BillStatus) error
	MaxBillID(ctx context.Context) (int64, error)

	// Billers
	CreateBiller(ctx context.Context, b *models.Biller) error
	UpsertBiller(ctx context.Context, b *models.Biller) error
	FindBillerByCode(ctx context.Context, code string) (*models.Biller, error)
	ListBillers(ctx context.Context) ([]*models.Biller, error)
	DeleteBiller(ctx context.Context, id int64) error

	// Schedules and recurrences
	CreateSchedule(ctx context.Context, s *models.Schedule) error
	FindScheduleByID(ctx context.Context, id int64) (*models.Schedule, error)
	ListSchedulesForUser(ctx context.Context, userID int64) ([]*models.Schedule, error)
	DueSchedules(ctx context.Context, now time.Time) ([]*models.Schedule, error)
	ClaimSchedule(ctx context.Context, id int64) (bool, error)
	ReleaseSchedule(ctx context.Context, id int64) error
	CompleteSchedule(ctx context.Context, id int64) error
	RescheduleSchedule(ctx context.Context, id int64, next time.Time) error
	SetScheduleRecurrence(ctx context.Context, scheduleID, recurrenceID int64) error
	CreateRecurrence(ctx context.Context, rec *models.Recurrence) error
	FindRecurrenceByID(ctx context.Context, id int64) (*models.Recurrence, error)
	DecrementRecurCount(ctx context.Context, id int64) (int, error)

	// Messages
	CreateMessage(ctx context.Context, m *models.Message) error
	ListMessagesForUser(ctx context.Context, userID int64) ([]*models.Message, error)
	MarkMessageRead(ctx context.Context, id int64, read bool) error

	// Users
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
}

// EmailSender mirrors schedule-outcome notifications to a user's email
// address. Optional; failures never block the underlying payment.
type EmailSender interface {
	SendScheduleOutcome(to, username string, kind models.MessageKind, description string) error
}
