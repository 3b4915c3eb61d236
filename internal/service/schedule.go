package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Legacy-Banking/Bank-Simulator-sub000/internal/models"
)

// ScheduleConfig is the immutable configuration for one schedule entry.
// Interval, RecurRule, EndDate and RecurCount only apply to the *_recur
// schedule types. A zero value is usable: it normalizes to a one-off
// transfer schedule.
type ScheduleConfig struct {
	Type       models.ScheduleType
	Interval   models.PayInterval
	RecurRule  models.RecurRule
	EndDate    time.Time
	RecurCount int
}

// NormalizeScheduleType maps free-form input to a schedule type, defaulting
// unrecognized values to a one-off transfer.
func NormalizeScheduleType(raw string) models.ScheduleType {
	switch models.ScheduleType(raw) {
	case models.ScheduleTypeBPAY:
		return models.ScheduleTypeBPAY
	case models.ScheduleTypeTransferRecur:
		return models.ScheduleTypeTransferRecur
	case models.ScheduleTypeBPAYRecur:
		return models.ScheduleTypeBPAYRecur
	default:
		return models.ScheduleTypeTransfer
	}
}

// NormalizeInterval maps free-form input to a pay interval, defaulting
// unrecognized values to monthly.
func NormalizeInterval(raw string) models.PayInterval {
	switch models.PayInterval(raw) {
	case models.IntervalWeekly:
		return models.IntervalWeekly
	case models.IntervalFortnightly:
		return models.IntervalFortnightly
	case models.IntervalQuarterly:
		return models.IntervalQuarterly
	default:
		return models.IntervalMonthly
	}
}

// NormalizeRecurRule maps free-form input to a recurrence rule, defaulting
// unrecognized values to untilFurtherNotice.
func NormalizeRecurRule(raw string) models.RecurRule {
	switch models.RecurRule(raw) {
	case models.RecurUntilDate:
		return models.RecurUntilDate
	case models.RecurForCount:
		return models.RecurForCount
	default:
		return models.RecurUntilFurtherNotice
	}
}

// CreateScheduleEntry persists a pending schedule from the given
// configuration and, for recurring types, the linked recurrence row. Biller
// fields are carried only for BPAY types and the destination account only
// for transfers. Returns the generated schedule reference.
func (s *Service) CreateScheduleEntry(ctx context.Context, cfg ScheduleConfig, fromAccount, toAccount int64, billerName, billerCode, referenceNumber string, amount decimal.Decimal, description string, payAt time.Time, relatedUser int64) (string, error) {
	scheduleType := NormalizeScheduleType(string(cfg.Type))

	sch := &models.Schedule{
		PayAt:        payAt,
		RelatedUser:  relatedUser,
		FromAccount:  fromAccount,
		Amount:       amount,
		Description:  description,
		ScheduleRef:  uuid.NewString(),
		ScheduleType: scheduleType,
		Status:       models.ScheduleStatusPending,
	}
	switch scheduleType {
	case models.ScheduleTypeBPAY, models.ScheduleTypeBPAYRecur:
		sch.BillerName = billerName
		sch.BillerCode = billerCode
		sch.ReferenceNumber = referenceNumber
	default:
		sch.ToAccount = toAccount
	}

	if err := s.store.CreateSchedule(ctx, sch); err != nil {
		return "", err
	}

	if scheduleType.Recurring() {
		rec := &models.Recurrence{
			Interval:        NormalizeInterval(string(cfg.Interval)),
			RelatedSchedule: sch.ID,
			RecurRule:       NormalizeRecurRule(string(cfg.RecurRule)),
			EndDate:         cfg.EndDate,
			RecurCountDec:   cfg.RecurCount,
		}
		if err := s.store.CreateRecurrence(ctx, rec); err != nil {
			return "", err
		}
		if err := s.store.SetScheduleRecurrence(ctx, sch.ID, rec.ID); err != nil {
			return "", err
		}
		sch.RecurringPayment = rec.ID
	}

	s.log.Infof("Schedule %s (%s) created for user %d, due %s", sch.ScheduleRef, sch.ScheduleType, relatedUser, payAt.Format(time.RFC3339))
	return sch.ScheduleRef, nil
}

// ListSchedules retrieves a user's schedules, soonest first.
func (s *Service) ListSchedules(ctx context.Context, userID int64) ([]*models.Schedule, error) {
	return s.store.ListSchedulesForUser(ctx, userID)
}
