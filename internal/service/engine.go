package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// scheduleSenderName is the sender shown on engine-generated inbox messages.
const scheduleSenderName = "Pay Scheduler"

// ExecuteSchedules scans for due, pending schedules and executes each one
// sequentially. Every schedule is claimed (pending -> processing) before
// dispatch, so an overlapping scan skips rows already being worked on and no
// due schedule can be double-executed. A schedule that cannot be paid for
// lack of funds is released back to pending and retried on the next scan.
func (s *Service) ExecuteSchedules(ctx context.Context) error {
	due, err := s.store.DueSchedules(ctx, s.now())
	if err != nil {
		return fmt.Errorf("failed to scan due schedules: %w", err)
	}

	for _, sch := range due {
		claimed, err := s.store.ClaimSchedule(ctx, sch.ID)
		if err != nil {
			s.log.Errorf("Failed to claim schedule %d: %v", sch.ID, err)
			continue
		}
		if !claimed {
			continue
		}
		if err := s.executeSchedule(ctx, sch); err != nil {
			s.log.Errorf("Schedule %s failed: %v", sch.ScheduleRef, err)
			if relErr := s.store.ReleaseSchedule(ctx, sch.ID); relErr != nil {
				s.log.Errorf("Failed to release schedule %d: %v", sch.ID, relErr)
			}
		}
	}
	return nil
}

// executeSchedule dispatches one claimed schedule by type. The caller
// releases the claim when an error is returned.
func (s *Service) executeSchedule(ctx context.Context, sch *models.Schedule) error {
	switch sch.ScheduleType {
	case models.ScheduleTypeTransfer:
		return s.finishOneOff(ctx, sch, s.executeTransfer)
	case models.ScheduleTypeBPAY:
		return s.finishOneOff(ctx, sch, s.executeBpay)
	case models.ScheduleTypeTransferRecur:
		return s.finishRecurring(ctx, sch, s.executeTransfer)
	case models.ScheduleTypeBPAYRecur:
		return s.finishRecurring(ctx, sch, s.executeBpay)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedScheduleType, sch.ScheduleType)
	}
}

func (s *Service) finishOneOff(ctx context.Context, sch *models.Schedule, pay func(context.Context, *models.Schedule) (bool, error)) error {
	paid, err := pay(ctx, sch)
	if err != nil {
		return err
	}
	if !paid {
		// Not funded yet: stays pending, retried on the next scan.
		return s.store.ReleaseSchedule(ctx, sch.ID)
	}
	return s.store.CompleteSchedule(ctx, sch.ID)
}

func (s *Service) finishRecurring(ctx context.Context, sch *models.Schedule, pay func(context.Context, *models.Schedule) (bool, error)) error {
	paid, err := pay(ctx, sch)
	if err != nil {
		return err
	}
	if !paid {
		return s.store.ReleaseSchedule(ctx, sch.ID)
	}
	if err := s.executeRecur(ctx, sch); err != nil {
		// The payment has already gone out. Releasing the claim here would
		// let the next scan pay it again, so the schedule is closed off
		// instead and the broken recurrence is left to operator attention.
		s.log.Errorf("Schedule %s paid but its recurrence could not be advanced: %v", sch.ScheduleRef, err)
		if cErr := s.store.CompleteSchedule(ctx, sch.ID); cErr != nil {
			s.log.Errorf("Failed to complete schedule %d: %v", sch.ID, cErr)
		}
	}
	return nil
}

// executeTransfer performs the account-to-account payment for a due
// schedule. Returns false without error when the source account lacks
// funds; the only side effect on that path is the insufficient-funds
// notification.
func (s *Service) executeTransfer(ctx context.Context, sch *models.Schedule) (bool, error) {
	from, err := s.store.FindAccountByID(ctx, sch.FromAccount)
	if err != nil {
		return false, err
	}
	to, err := s.store.FindAccountByID(ctx, sch.ToAccount)
	if err != nil {
		return false, err
	}

	if from.Balance.LessThan(sch.Amount) {
		s.CreateMessage(ctx, scheduleSenderName, sch.RelatedUser,
			fmt.Sprintf("Your scheduled transfer of $%s to %s could not be made: insufficient funds in account %d.",
				sch.Amount, to.OwnerUsername, from.ID),
			models.MessageKindInsufficient, "", "", sch.ScheduleRef)
		return false, nil
	}

	s.CreateMessage(ctx, scheduleSenderName, sch.RelatedUser,
		fmt.Sprintf("Your scheduled transfer of $%s to %s has been made.", sch.Amount, to.OwnerUsername),
		models.MessageKindSchedule, "", "", sch.ScheduleRef)

	if _, err := s.CreateTransaction(ctx, from, to, sch.Amount, sch.Description, models.TransactionTypeTransfer); err != nil {
		return false, err
	}
	return true, nil
}

// executeBpay performs the biller payment for a due schedule via bill
// resolution. Same insufficient-funds contract as executeTransfer.
func (s *Service) executeBpay(ctx context.Context, sch *models.Schedule) (bool, error) {
	biller, err := s.store.FindBillerByCode(ctx, sch.BillerCode)
	if err != nil {
		return false, err
	}
	from, err := s.store.FindAccountByID(ctx, sch.FromAccount)
	if err != nil {
		return false, err
	}

	if from.Balance.LessThan(sch.Amount) {
		s.CreateMessage(ctx, scheduleSenderName, sch.RelatedUser,
			fmt.Sprintf("Your scheduled BPAY payment of $%s to %s could not be made: insufficient funds in account %d.",
				sch.Amount, biller.Name, from.ID),
			models.MessageKindInsufficient, "", "", sch.ScheduleRef)
		return false, nil
	}

	s.CreateMessage(ctx, scheduleSenderName, sch.RelatedUser,
		fmt.Sprintf("Your scheduled BPAY payment of $%s to %s has been made.", sch.Amount, biller.Name),
		models.MessageKindSchedule, "", "", sch.ScheduleRef)

	if _, err := s.PayBills(ctx, from, biller.Name, sch.BillerCode, sch.ReferenceNumber, sch.Amount, sch.Description, sch.RelatedUser); err != nil {
		return false, err
	}
	return true, nil
}

// executeRecur advances a recurring schedule after a successful payment:
// either rescheduled forward by its interval or completed when the
// recurrence rule has run out.
func (s *Service) executeRecur(ctx context.Context, sch *models.Schedule) error {
	rec, err := s.store.FindRecurrenceByID(ctx, sch.RecurringPayment)
	if err != nil {
		return err
	}
	next, err := AdvanceInterval(sch.PayAt, rec.Interval)
	if err != nil {
		return err
	}

	switch rec.RecurRule {
	case models.RecurUntilFurtherNotice:
		// Never completes on its own.
	case models.RecurUntilDate:
		if next.After(rec.EndDate) {
			return s.store.CompleteSchedule(ctx, sch.ID)
		}
	case models.RecurForCount:
		remaining, err := s.store.DecrementRecurCount(ctx, rec.ID)
		if err != nil {
			return err
		}
		if remaining <= 0 {
			return s.store.CompleteSchedule(ctx, sch.ID)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedRecurRule, rec.RecurRule)
	}

	if err := s.store.RescheduleSchedule(ctx, sch.ID, next); err != nil {
		return err
	}

	recipient := sch.BillerName
	if recipient == "" {
		if to, err := s.store.FindAccountByID(ctx, sch.ToAccount); err == nil {
			recipient = to.OwnerUsername
		}
	}
	s.CreateMessage(ctx, scheduleSenderName, sch.RelatedUser,
		fmt.Sprintf("Your recurring payment of $%s to %s will next be made on %s.",
			sch.Amount, recipient, next.Format("02 Jan 2006")),
		models.MessageKindRecurring, "", "", sch.ScheduleRef)
	return nil
}

// AdvanceInterval moves a payment time forward by one pay interval using
// calendar arithmetic, so monthly and quarterly runs keep their
// day-of-month instead of drifting on a fixed-duration approximation.
func AdvanceInterval(t time.Time, interval models.PayInterval) (time.Time, error) {
	switch interval {
	case models.IntervalWeekly:
		return t.AddDate(0, 0, 7), nil
	case models.IntervalFortnightly:
		return t.AddDate(0, 0, 14), nil
	case models.IntervalMonthly:
		return t.AddDate(0, 1, 0), nil
	case models.IntervalQuarterly:
		return t.AddDate(0, 3, 0), nil
	default:
		return time.Time{}, fmt.Errorf("%w: interval %q", ErrUnsupportedRecurRule, interval)
	}
}
