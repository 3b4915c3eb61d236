package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleType selects the payment performed when a schedule falls due and
// whether it repeats.
type ScheduleType string

const (
	ScheduleTypeTransfer      ScheduleType = "transfer_schedule"
	ScheduleTypeBPAY          ScheduleType = "bpay_schedule"
	ScheduleTypeTransferRecur ScheduleType = "transfer_recur"
	ScheduleTypeBPAYRecur     ScheduleType = "bpay_recur"
)

// Recurring reports whether the type carries a linked recurrence.
func (t ScheduleType) Recurring() bool {
	return t == ScheduleTypeTransferRecur || t == ScheduleTypeBPAYRecur
}

// ScheduleStatus is the execution state of a schedule. Processing is a
// transient claim held by the execution engine while it works on a row; a
// schedule is only ever observed as pending or completed between runs.
type ScheduleStatus string

const (
	ScheduleStatusPending    ScheduleStatus = "pending"
	ScheduleStatusProcessing ScheduleStatus = "processing"
	ScheduleStatusCompleted  ScheduleStatus = "completed"
)

// Schedule represents a deferred transfer or BPAY payment. Created once by a
// user action and mutated only by the execution engine: status, and for
// recurring schedules the next PayAt.
type Schedule struct {
	ID               int64           `json:"id"`
	PayAt            time.Time       `json:"pay_at"`
	RelatedUser      int64           `json:"related_user"`
	FromAccount      int64           `json:"from_account"`
	ToAccount        int64           `json:"to_account,omitempty"`
	BillerName       string          `json:"biller_name,omitempty"`
	BillerCode       string          `json:"biller_code,omitempty"`
	ReferenceNumber  string          `json:"reference_number,omitempty"`
	Amount           decimal.Decimal `json:"amount"`
	Description      string          `json:"description"`
	ScheduleRef      string          `json:"schedule_ref"`
	ScheduleType     ScheduleType    `json:"schedule_type"`
	Status           ScheduleStatus  `json:"status"`
	RecurringPayment int64           `json:"recurring_payment,omitempty"`
}

// PayInterval is the gap between runs of a recurring schedule.
type PayInterval string

const (
	IntervalWeekly      PayInterval = "weekly"
	IntervalFortnightly PayInterval = "fortnightly"
	IntervalMonthly     PayInterval = "monthly"
	IntervalQuarterly   PayInterval = "quarterly"
)

// RecurRule decides when a recurring schedule stops rescheduling itself.
type RecurRule string

const (
	RecurUntilFurtherNotice RecurRule = "untilFurtherNotice"
	RecurUntilDate          RecurRule = "untilDate"
	RecurForCount           RecurRule = "forCount"
)

// Recurrence is the repeat rule attached to a *_recur schedule, one-to-one
// with its owning Schedule. RecurCountDec counts down on each successful
// advance and never goes below the point of completion.
type Recurrence struct {
	ID              int64       `json:"id"`
	Interval        PayInterval `json:"interval"`
	RelatedSchedule int64       `json:"related_schedule"`
	RecurRule       RecurRule   `json:"recur_rule"`
	EndDate         time.Time   `json:"end_date,omitempty"`
	RecurCountDec   int         `json:"recur_count_dec,omitempty"`
}
