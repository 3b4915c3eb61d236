package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

func seedSchedule(store *fakeStore, s *models.Schedule) *models.Schedule {
	if s.Status == "" {
		s.Status = models.ScheduleStatusPending
	}
	if s.ScheduleRef == "" {
		s.ScheduleRef = "test-ref"
	}
	_ = store.CreateSchedule(context.Background(), s)
	return s
}

func seedRecurrence(store *fakeStore, schedule *models.Schedule, rec *models.Recurrence) *models.Recurrence {
	rec.RelatedSchedule = schedule.ID
	_ = store.CreateRecurrence(context.Background(), rec)
	schedule.RecurringPayment = rec.ID
	return rec
}

func messageKinds(store *fakeStore) []models.MessageKind {
	kinds := make([]models.MessageKind, 0, len(store.messages))
	for _, m := range store.messages {
		kinds = append(kinds, m.Kind)
	}
	return kinds
}

func TestExecuteSchedulesTransfer(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	t.Run("due transfer is paid and completed", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), Description: "pocket money",
			ScheduleType: models.ScheduleTypeTransfer,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))

		assert.Equal(t, models.ScheduleStatusCompleted, store.schedules[sch.ID].Status)
		assert.True(t, store.accounts[from.ID].Balance.Equal(dec("75.00")))
		assert.True(t, store.accounts[to.ID].Balance.Equal(dec("25.00")))
		require.Len(t, store.transactions, 1)
		assert.Equal(t, []models.MessageKind{models.MessageKindSchedule}, messageKinds(store))
	})

	t.Run("future schedule is left alone", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due.AddDate(0, 0, 10), RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransfer,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))
		assert.Equal(t, models.ScheduleStatusPending, store.schedules[sch.ID].Status)
		assert.Empty(t, store.transactions)
	})

	t.Run("insufficient funds notifies and stays pending", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "10.00", "10.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransfer,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))

		// Retry-until-funded: no state change beyond the notification.
		assert.Equal(t, models.ScheduleStatusPending, store.schedules[sch.ID].Status)
		assert.True(t, store.accounts[from.ID].Balance.Equal(dec("10.00")))
		assert.Empty(t, store.transactions)
		assert.Equal(t, []models.MessageKind{models.MessageKindInsufficient}, messageKinds(store))

		// Once funded, the next scan pays it out.
		store.accounts[from.ID].Balance = dec("50.00")
		require.NoError(t, svc.ExecuteSchedules(ctx))
		assert.Equal(t, models.ScheduleStatusCompleted, store.schedules[sch.ID].Status)
		require.Len(t, store.transactions, 1)
	})

	t.Run("unknown schedule type is released with an error", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleType("standing_order"),
		})

		err := svc.executeSchedule(ctx, sch)
		assert.ErrorIs(t, err, ErrUnsupportedScheduleType)

		require.NoError(t, svc.ExecuteSchedules(ctx))
		assert.Equal(t, models.ScheduleStatusPending, store.schedules[sch.ID].Status)
		assert.Empty(t, store.transactions)
	})

	t.Run("notification failure never blocks the payment", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransfer,
		})
		store.failCreateMessage = errors.New("inbox down")

		require.NoError(t, svc.ExecuteSchedules(ctx))
		assert.Equal(t, models.ScheduleStatusCompleted, store.schedules[sch.ID].Status)
		assert.True(t, store.accounts[to.ID].Balance.Equal(dec("25.00")))
		assert.Empty(t, store.messages)
	})
}

func TestExecuteSchedulesBpay(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	t.Run("due bpay schedule pays bills through resolution", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		_ = store.CreateBiller(ctx, &models.Biller{Name: "Energy Co", Code: "12345"})
		bill := seedBill(store, 1, "Energy Co", "40.00", due)
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID,
			BillerName: "Energy Co", BillerCode: "12345", ReferenceNumber: "987654321098",
			Amount: dec("40.00"), Description: "power",
			ScheduleType: models.ScheduleTypeBPAY,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))

		assert.Equal(t, models.ScheduleStatusCompleted, store.schedules[sch.ID].Status)
		assert.Equal(t, models.BillStatusPaid, store.bills[bill.ID].Status)
		assert.True(t, store.accounts[from.ID].Balance.Equal(dec("60.00")))
		assert.Equal(t, []models.MessageKind{models.MessageKindSchedule}, messageKinds(store))
	})

	t.Run("unknown biller releases the schedule", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID,
			BillerCode: "00000", Amount: dec("40.00"),
			ScheduleType: models.ScheduleTypeBPAY,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))
		assert.Equal(t, models.ScheduleStatusPending, store.schedules[sch.ID].Status)
		assert.True(t, store.accounts[from.ID].Balance.Equal(dec("100.00")))
	})
}

func TestExecuteSchedulesRecurrence(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	t.Run("forCount of one completes after the single run", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransferRecur,
		})
		rec := seedRecurrence(store, sch, &models.Recurrence{
			Interval: models.IntervalWeekly, RecurRule: models.RecurForCount, RecurCountDec: 1,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))

		assert.Equal(t, models.ScheduleStatusCompleted, store.schedules[sch.ID].Status)
		assert.Equal(t, 0, store.recurrences[rec.ID].RecurCountDec)
		require.Len(t, store.transactions, 1)
		// Completed, so only the success message, no recurring notice.
		assert.Equal(t, []models.MessageKind{models.MessageKindSchedule}, messageKinds(store))
	})

	t.Run("forCount above one reschedules and decrements", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransferRecur,
		})
		rec := seedRecurrence(store, sch, &models.Recurrence{
			Interval: models.IntervalWeekly, RecurRule: models.RecurForCount, RecurCountDec: 3,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))

		assert.Equal(t, models.ScheduleStatusPending, store.schedules[sch.ID].Status)
		assert.Equal(t, due.AddDate(0, 0, 7), store.schedules[sch.ID].PayAt)
		assert.Equal(t, 2, store.recurrences[rec.ID].RecurCountDec)
		assert.Equal(t, []models.MessageKind{models.MessageKindSchedule, models.MessageKindRecurring}, messageKinds(store))
	})

	t.Run("untilDate completes once the next run would pass the end date", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransferRecur,
		})
		seedRecurrence(store, sch, &models.Recurrence{
			Interval: models.IntervalMonthly, RecurRule: models.RecurUntilDate,
			EndDate: due.AddDate(0, 0, 10),
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))

		assert.Equal(t, models.ScheduleStatusCompleted, store.schedules[sch.ID].Status)
		assert.Equal(t, due, store.schedules[sch.ID].PayAt, "completed schedules are not rescheduled")
		require.Len(t, store.transactions, 1)
	})

	t.Run("untilDate reschedules while inside the end date", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransferRecur,
		})
		seedRecurrence(store, sch, &models.Recurrence{
			Interval: models.IntervalFortnightly, RecurRule: models.RecurUntilDate,
			EndDate: due.AddDate(1, 0, 0),
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))
		assert.Equal(t, models.ScheduleStatusPending, store.schedules[sch.ID].Status)
		assert.Equal(t, due.AddDate(0, 0, 14), store.schedules[sch.ID].PayAt)
	})

	t.Run("untilFurtherNotice always reschedules", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "1000.00", "1000.00", "alice")
		_ = store.CreateBiller(ctx, &models.Biller{Name: "Energy Co", Code: "12345"})
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID,
			BillerName: "Energy Co", BillerCode: "12345",
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeBPAYRecur,
		})
		seedRecurrence(store, sch, &models.Recurrence{
			Interval: models.IntervalQuarterly, RecurRule: models.RecurUntilFurtherNotice,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))
		assert.Equal(t, models.ScheduleStatusPending, store.schedules[sch.ID].Status)
		assert.Equal(t, due.AddDate(0, 3, 0), store.schedules[sch.ID].PayAt)
	})

	t.Run("broken recurrence after payment never pays twice", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransferRecur,
			RecurringPayment: 999, // no such recurrence row
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))
		require.NoError(t, svc.ExecuteSchedules(ctx))

		assert.True(t, store.accounts[from.ID].Balance.Equal(dec("75.00")), "debited exactly once")
		require.Len(t, store.transactions, 1)
		assert.Equal(t, models.ScheduleStatusCompleted, store.schedules[sch.ID].Status,
			"a paid schedule with a broken recurrence is closed off, not retried")
	})

	t.Run("insufficient funds on a recurring schedule does not advance it", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "5.00", "5.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransferRecur,
		})
		rec := seedRecurrence(store, sch, &models.Recurrence{
			Interval: models.IntervalWeekly, RecurRule: models.RecurForCount, RecurCountDec: 2,
		})

		require.NoError(t, svc.ExecuteSchedules(ctx))

		assert.Equal(t, models.ScheduleStatusPending, store.schedules[sch.ID].Status)
		assert.Equal(t, due, store.schedules[sch.ID].PayAt)
		assert.Equal(t, 2, store.recurrences[rec.ID].RecurCountDec, "count is only decremented on a successful advance")
	})
}

func TestExecuteSchedulesClaim(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2024, 6, 15, 8, 0, 0, 0, time.UTC)

	t.Run("overlapping scans never double-debit", func(t *testing.T) {
		store := newFakeStore()
		svc := newTestService(store)
		from := seedAccount(store, models.AccountTypePersonal, "100.00", "100.00", "alice")
		to := seedAccount(store, models.AccountTypeSavings, "0.00", "0.00", "bob")
		sch := seedSchedule(store, &models.Schedule{
			PayAt: due, RelatedUser: 1, FromAccount: from.ID, ToAccount: to.ID,
			Amount: dec("25.00"), ScheduleType: models.ScheduleTypeTransfer,
		})

		// Both scans observe the same due snapshot, as if the trigger fired
		// twice before either run finished.
		snapshot := *sch
		store.staleDue = []*models.Schedule{&snapshot}

		require.NoError(t, svc.ExecuteSchedules(ctx))
		require.NoError(t, svc.ExecuteSchedules(ctx))

		assert.True(t, store.accounts[from.ID].Balance.Equal(dec("75.00")), "debited exactly once")
		require.Len(t, store.transactions, 1)
		assert.Equal(t, models.ScheduleStatusCompleted, store.schedules[sch.ID].Status)
	})
}

func TestAdvanceInterval(t *testing.T) {
	start := time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		interval models.PayInterval
		want     time.Time
	}{
		{models.IntervalWeekly, start.AddDate(0, 0, 7)},
		{models.IntervalFortnightly, start.AddDate(0, 0, 14)},
		{models.IntervalMonthly, start.AddDate(0, 1, 0)},
		{models.IntervalQuarterly, start.AddDate(0, 3, 0)},
	}
	for _, tt := range tests {
		got, err := AdvanceInterval(start, tt.interval)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "interval %s", tt.interval)
	}

	_, err := AdvanceInterval(start, models.PayInterval("yearly"))
	assert.ErrorIs(t, err, ErrUnsupportedRecurRule)
}
