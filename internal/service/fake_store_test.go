package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/config"
	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// fakeStore is an in-memory Store used to exercise the service layer
// without Postgres. Write paths honor the same contracts as the repository,
// including the atomicity of ApplyTransfer/ApplyDebit and the
// pending -> processing claim.
type fakeStore struct {
	accounts    map[int64]*models.Account
	transactions []*models.Transaction
	bills       map[int64]*models.Bill
	billers     map[string]*models.Biller
	schedules   map[int64]*models.Schedule
	recurrences map[int64]*models.Recurrence
	messages    []*models.Message
	users       map[int64]*models.User

	nextID int64

	// staleDue, when set, is returned by DueSchedules regardless of current
	// statuses, simulating a second scanner working from a stale snapshot.
	staleDue []*models.Schedule

	failApplyTransfer     error
	failCreateTransaction error
	failCreateMessage     error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		accounts:    make(map[int64]*models.Account),
		bills:       make(map[int64]*models.Bill),
		billers:     make(map[string]*models.Biller),
		schedules:   make(map[int64]*models.Schedule),
		recurrences: make(map[int64]*models.Recurrence),
		users:       make(map[int64]*models.User),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) CreateAccount(_ context.Context, a *models.Account) error {
	a.ID = f.id()
	f.accounts[a.ID] = a
	return nil
}

func (f *fakeStore) FindAccountByID(_ context.Context, id int64) (*models.Account, error) {
	a, ok := f.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %d not found", id)
	}
	copy := *a
	return &copy, nil
}

func (f *fakeStore) ListAccountsByOwner(_ context.Context, ownerID int64) ([]*models.Account, error) {
	var out []*models.Account
	for _, a := range f.accounts {
		if a.OwnerID == ownerID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateAccountBalance(_ context.Context, id int64, balance decimal.Decimal) error {
	a, ok := f.accounts[id]
	if !ok {
		return fmt.Errorf("account %d not found", id)
	}
	a.Balance = balance
	return nil
}

func (f *fakeStore) CreateTransaction(_ context.Context, t *models.Transaction) error {
	if f.failCreateTransaction != nil {
		return f.failCreateTransaction
	}
	t.ID = f.id()
	f.transactions = append(f.transactions, t)
	return nil
}

func (f *fakeStore) ApplyTransfer(_ context.Context, fromID, toID int64, fromBalance, toBalance decimal.Decimal, t *models.Transaction) error {
	if f.failApplyTransfer != nil {
		return f.failApplyTransfer
	}
	from, ok := f.accounts[fromID]
	if !ok {
		return fmt.Errorf("account %d not found", fromID)
	}
	to, ok := f.accounts[toID]
	if !ok {
		return fmt.Errorf("account %d not found", toID)
	}
	from.Balance = fromBalance
	to.Balance = toBalance
	t.ID = f.id()
	f.transactions = append(f.transactions, t)
	return nil
}

func (f *fakeStore) ApplyDebit(_ context.Context, accountID int64, balance decimal.Decimal, t *models.Transaction) error {
	if f.failApplyTransfer != nil {
		return f.failApplyTransfer
	}
	a, ok := f.accounts[accountID]
	if !ok {
		return fmt.Errorf("account %d not found", accountID)
	}
	a.Balance = balance
	t.ID = f.id()
	f.transactions = append(f.transactions, t)
	return nil
}

func (f *fakeStore) ListTransactionsForAccount(_ context.Context, accountID int64) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, t := range f.transactions {
		if t.FromAccount == accountID || t.ToAccount == accountID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeStore) CreateBill(_ context.Context, b *models.Bill) error {
	b.ID = f.id()
	f.bills[b.ID] = b
	return nil
}

func (f *fakeStore) FindBillByID(_ context.Context, id int64) (*models.Bill, error) {
	b, ok := f.bills[id]
	if !ok {
		return nil, fmt.Errorf("bill %d not found", id)
	}
	return b, nil
}

func (f *fakeStore) ListOpenBillsForBiller(_ context.Context, userID int64, billerName string) ([]*models.Bill, error) {
	var out []*models.Bill
	for _, b := range f.bills {
		if b.BilledUser == userID && b.From == billerName && b.Status != models.BillStatusPaid {
			copy := *b
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeStore) ListBillsForUser(_ context.Context, userID int64) ([]*models.Bill, error) {
	var out []*models.Bill
	for _, b := range f.bills {
		if b.BilledUser == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateBillPayment(_ context.Context, id int64, amount decimal.Decimal, status models.BillStatus) error {
	b, ok := f.bills[id]
	if !ok {
		return fmt.Errorf("bill %d not found", id)
	}
	b.Amount = amount
	b.Status = status
	return nil
}

func (f *fakeStore) MaxBillID(_ context.Context) (int64, error) {
	var max int64
	for id := range f.bills {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (f *fakeStore) CreateBiller(_ context.Context, b *models.Biller) error {
	b.ID = f.id()
	f.billers[b.Code] = b
	return nil
}

func (f *fakeStore) UpsertBiller(_ context.Context, b *models.Biller) error {
	if existing, ok := f.billers[b.Code]; ok {
		existing.Name = b.Name
		b.ID = existing.ID
		return nil
	}
	return f.CreateBiller(nil, b)
}

func (f *fakeStore) FindBillerByCode(_ context.Context, code string) (*models.Biller, error) {
	b, ok := f.billers[code]
	if !ok {
		return nil, fmt.Errorf("biller %s not found", code)
	}
	return b, nil
}

func (f *fakeStore) ListBillers(_ context.Context) ([]*models.Biller, error) {
	var out []*models.Biller
	for _, b := range f.billers {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeStore) DeleteBiller(_ context.Context, id int64) error {
	for code, b := range f.billers {
		if b.ID == id {
			delete(f.billers, code)
			return nil
		}
	}
	return fmt.Errorf("biller %d not found", id)
}

func (f *fakeStore) CreateSchedule(_ context.Context, s *models.Schedule) error {
	s.ID = f.id()
	f.schedules[s.ID] = s
	return nil
}

func (f *fakeStore) FindScheduleByID(_ context.Context, id int64) (*models.Schedule, error) {
	s, ok := f.schedules[id]
	if !ok {
		return nil, fmt.Errorf("schedule %d not found", id)
	}
	return s, nil
}

func (f *fakeStore) ListSchedulesForUser(_ context.Context, userID int64) ([]*models.Schedule, error) {
	var out []*models.Schedule
	for _, s := range f.schedules {
		if s.RelatedUser == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) DueSchedules(_ context.Context, now time.Time) ([]*models.Schedule, error) {
	if f.staleDue != nil {
		return f.staleDue, nil
	}
	var out []*models.Schedule
	for _, s := range f.schedules {
		if s.Status == models.ScheduleStatusPending && !s.PayAt.After(now) {
			copy := *s
			out = append(out, &copy)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PayAt.Before(out[j].PayAt) })
	return out, nil
}

func (f *fakeStore) ClaimSchedule(_ context.Context, id int64) (bool, error) {
	s, ok := f.schedules[id]
	if !ok {
		return false, fmt.Errorf("schedule %d not found", id)
	}
	if s.Status != models.ScheduleStatusPending {
		return false, nil
	}
	s.Status = models.ScheduleStatusProcessing
	return true, nil
}

func (f *fakeStore) ReleaseSchedule(_ context.Context, id int64) error {
	s, ok := f.schedules[id]
	if !ok {
		return fmt.Errorf("schedule %d not found", id)
	}
	if s.Status == models.ScheduleStatusProcessing {
		s.Status = models.ScheduleStatusPending
	}
	return nil
}

func (f *fakeStore) CompleteSchedule(_ context.Context, id int64) error {
	s, ok := f.schedules[id]
	if !ok {
		return fmt.Errorf("schedule %d not found", id)
	}
	s.Status = models.ScheduleStatusCompleted
	return nil
}

func (f *fakeStore) RescheduleSchedule(_ context.Context, id int64, next time.Time) error {
	s, ok := f.schedules[id]
	if !ok {
		return fmt.Errorf("schedule %d not found", id)
	}
	s.PayAt = next
	s.Status = models.ScheduleStatusPending
	return nil
}

func (f *fakeStore) SetScheduleRecurrence(_ context.Context, scheduleID, recurrenceID int64) error {
	s, ok := f.schedules[scheduleID]
	if !ok {
		return fmt.Errorf("schedule %d not found", scheduleID)
	}
	s.RecurringPayment = recurrenceID
	return nil
}

func (f *fakeStore) CreateRecurrence(_ context.Context, rec *models.Recurrence) error {
	rec.ID = f.id()
	f.recurrences[rec.ID] = rec
	return nil
}

func (f *fakeStore) FindRecurrenceByID(_ context.Context, id int64) (*models.Recurrence, error) {
	rec, ok := f.recurrences[id]
	if !ok {
		return nil, fmt.Errorf("recurrence %d not found", id)
	}
	return rec, nil
}

func (f *fakeStore) DecrementRecurCount(_ context.Context, id int64) (int, error) {
	rec, ok := f.recurrences[id]
	if !ok {
		return 0, fmt.Errorf("recurrence %d not found", id)
	}
	rec.RecurCountDec--
	return rec.RecurCountDec, nil
}

func (f *fakeStore) CreateMessage(_ context.Context, m *models.Message) error {
	if f.failCreateMessage != nil {
		return f.failCreateMessage
	}
	m.ID = f.id()
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeStore) ListMessagesForUser(_ context.Context, userID int64) ([]*models.Message, error) {
	var out []*models.Message
	for _, m := range f.messages {
		if m.ToUser == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeStore) MarkMessageRead(_ context.Context, id int64, read bool) error {
	for _, m := range f.messages {
		if m.ID == id {
			m.Read = read
			return nil
		}
	}
	return fmt.Errorf("message %d not found", id)
}

func (f *fakeStore) CreateUser(_ context.Context, u *models.User) error {
	u.ID = f.id()
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user %s not found", email)
}

func (f *fakeStore) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d not found", id)
	}
	return u, nil
}

var _ Store = (*fakeStore)(nil)

// newTestService wires a Service around the fake with a quiet logger and a
// fixed clock.
func newTestService(store *fakeStore) *Service {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := NewService(store, logger, &config.Config{JWTSecret: "test"}, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC) }
	return svc
}

// dec is shorthand for decimal literals in tests.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
